package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shop is an installed store. The access token grants offline Admin API
// access and is stored verbatim; partner state itself lives in Shopify.
type Shop struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Domain        string             `json:"domain" bson:"domain" validate:"required"`
	AccessToken   string             `json:"-" bson:"access_token"`
	Scope         string             `json:"scope" bson:"scope"`
	Active        bool               `json:"active" bson:"active"`
	InstalledAt   time.Time          `json:"installed_at" bson:"installed_at"`
	UninstalledAt *time.Time         `json:"uninstalled_at,omitempty" bson:"uninstalled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
