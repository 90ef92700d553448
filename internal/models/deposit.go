package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DepositStatus string

const (
	DepositStatusSucceeded DepositStatus = "succeeded"
	DepositStatusFailed    DepositStatus = "failed"
)

// DepositRecord is one store-credit deposit attempt. The ledger makes
// deposits auditable and keeps the reconciler idempotent per order: at most
// one succeeded entry may exist per (shop, order, partner).
type DepositRecord struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EntryID    string             `json:"entry_id" bson:"entry_id"`
	ShopDomain string             `json:"shop_domain" bson:"shop_domain"`
	OrderID    int64              `json:"order_id" bson:"order_id"`
	PartnerID  string             `json:"partner_id" bson:"partner_id"`
	Amount     float64            `json:"amount" bson:"amount"`
	Currency   string             `json:"currency" bson:"currency"`
	Status     DepositStatus      `json:"status" bson:"status"`
	Reason     string             `json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
