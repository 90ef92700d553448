package mongodb

import (
	"context"
	"fmt"
	"time"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type depositRepository struct {
	collection *mongo.Collection
}

func NewDepositRepository(db *mongo.Database) interfaces.DepositRepository {
	return &depositRepository{
		collection: db.Collection("deposits"),
	}
}

// Record inserts a ledger entry. The deposits collection carries a partial
// unique index over (shop_domain, order_id, partner_id) for succeeded
// entries, installed by the migrations in pkg/database.
func (r *depositRepository) Record(ctx context.Context, record *models.DepositRecord) error {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("deposit already recorded for order %d", record.OrderID)
		}
		return fmt.Errorf("failed to record deposit: %w", err)
	}
	return nil
}

func (r *depositRepository) FindSucceeded(ctx context.Context, shopDomain string, orderID int64, partnerID string) (*models.DepositRecord, error) {
	filter := bson.M{
		"shop_domain": shopDomain,
		"order_id":    orderID,
		"partner_id":  partnerID,
		"status":      string(models.DepositStatusSucceeded),
	}

	var record models.DepositRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find deposit: %w", err)
	}
	return &record, nil
}

func (r *depositRepository) ListByPartner(ctx context.Context, shopDomain, partnerID string) ([]*models.DepositRecord, error) {
	filter := bson.M{
		"shop_domain": shopDomain,
		"partner_id":  partnerID,
	}
	return r.list(ctx, filter)
}

func (r *depositRepository) ListFailed(ctx context.Context, shopDomain string) ([]*models.DepositRecord, error) {
	filter := bson.M{
		"shop_domain": shopDomain,
		"status":      string(models.DepositStatusFailed),
	}
	return r.list(ctx, filter)
}

func (r *depositRepository) list(ctx context.Context, filter bson.M) ([]*models.DepositRecord, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.DepositRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode deposits: %w", err)
	}
	return records, nil
}
