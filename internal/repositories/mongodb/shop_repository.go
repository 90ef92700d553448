package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type shopRepository struct {
	collection *mongo.Collection
}

func NewShopRepository(db *mongo.Database) interfaces.ShopRepository {
	return &shopRepository{
		collection: db.Collection("shops"),
	}
}

// Upsert creates the install record on first install and refreshes the
// token, scope and active flag on every subsequent OAuth round trip.
func (r *shopRepository) Upsert(ctx context.Context, shop *models.Shop) error {
	now := time.Now()
	domain := normalizeDomain(shop.Domain)

	update := bson.M{
		"$set": bson.M{
			"domain":       domain,
			"access_token": shop.AccessToken,
			"scope":        shop.Scope,
			"active":       true,
			"installed_at": now,
			"updated_at":   now,
		},
		"$unset": bson.M{
			"uninstalled_at": "",
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"domain": domain}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert shop: %w", err)
	}
	return nil
}

func (r *shopRepository) GetByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	var shop models.Shop
	err := r.collection.FindOne(ctx, bson.M{"domain": normalizeDomain(domain)}).Decode(&shop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("shop not found")
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

func (r *shopRepository) ListActive(ctx context.Context) ([]*models.Shop, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer cursor.Close(ctx)

	var shops []*models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to decode shops: %w", err)
	}
	return shops, nil
}

func (r *shopRepository) MarkUninstalled(ctx context.Context, domain string) error {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"active":         false,
			"access_token":   "",
			"uninstalled_at": now,
			"updated_at":     now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"domain": normalizeDomain(domain)}, update)
	if err != nil {
		return fmt.Errorf("failed to mark shop uninstalled: %w", err)
	}
	return nil
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
