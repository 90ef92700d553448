package shopify

import (
	"context"
	"fmt"
	"strings"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/pkg/shopify"
)

type pendingSignupRepository struct {
	api *shopify.Client
}

// NewPendingSignupRepository derives the signup queue from customers tagged
// as pending.
func NewPendingSignupRepository(api *shopify.Client) interfaces.PendingSignupRepository {
	return &pendingSignupRepository{api: api}
}

func (r *pendingSignupRepository) List(ctx context.Context, shop *models.Shop) ([]*models.PendingSignup, error) {
	customers, err := r.api.SearchCustomersByTag(ctx, session(shop), models.TagPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending signups: %w", err)
	}

	signups := make([]*models.PendingSignup, 0, len(customers))
	for i := range customers {
		signups = append(signups, signupFromCustomer(&customers[i]))
	}
	return signups, nil
}

func (r *pendingSignupRepository) Count(ctx context.Context, shop *models.Shop) (int, error) {
	signups, err := r.List(ctx, shop)
	if err != nil {
		return 0, err
	}
	return len(signups), nil
}

func (r *pendingSignupRepository) Get(ctx context.Context, shop *models.Shop, customerID string) (*models.PendingSignup, error) {
	customer, err := r.api.GetCustomer(ctx, session(shop), customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending signup: %w", err)
	}

	if !hasTag(customer.Tags, models.TagPending) {
		return nil, fmt.Errorf("customer %s has no pending signup", customerID)
	}
	return signupFromCustomer(customer), nil
}

func (r *pendingSignupRepository) MarkAccepted(ctx context.Context, shop *models.Shop, customerID string) error {
	return r.transition(ctx, shop, customerID, models.TagApproved)
}

func (r *pendingSignupRepository) MarkRejected(ctx context.Context, shop *models.Shop, customerID string) error {
	return r.transition(ctx, shop, customerID, models.TagRejected)
}

func (r *pendingSignupRepository) transition(ctx context.Context, shop *models.Shop, customerID, tag string) error {
	s := session(shop)

	if err := r.api.AddCustomerTags(ctx, s, customerID, []string{tag}); err != nil {
		return fmt.Errorf("failed to tag customer: %w", err)
	}
	if err := r.api.RemoveCustomerTags(ctx, s, customerID, []string{models.TagPending}); err != nil {
		return fmt.Errorf("failed to clear pending tag: %w", err)
	}
	return nil
}

// signupFromCustomer maps a tagged customer to the queue entry. The
// profession is carried in the customer note by the storefront signup form.
func signupFromCustomer(c *shopify.Customer) *models.PendingSignup {
	return &models.PendingSignup{
		CustomerID:  c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Profession:  strings.TrimSpace(c.Note),
		RequestedAt: c.CreatedAt,
	}
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}
