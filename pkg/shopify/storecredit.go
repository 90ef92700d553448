package shopify

import (
	"context"
	"fmt"
)

// GetStoreCreditAccountID resolves the store-credit account for a customer
// in the given currency. Returns "" when the customer has no account yet; the
// credit mutation accepts the customer GID as owner in that case and creates
// one.
func (c *Client) GetStoreCreditAccountID(ctx context.Context, s Session, customerID, currency string) (string, error) {
	query := `
		query storeCreditAccounts($id: ID!) {
			customer(id: $id) {
				storeCreditAccounts(first: 10) {
					edges {
						node {
							id
							balance { currencyCode }
						}
					}
				}
			}
		}`

	var out struct {
		Customer *struct {
			StoreCreditAccounts struct {
				Edges []struct {
					Node struct {
						ID      string `json:"id"`
						Balance struct {
							CurrencyCode string `json:"currencyCode"`
						} `json:"balance"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"storeCreditAccounts"`
		} `json:"customer"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": customerID}, &out); err != nil {
		return "", fmt.Errorf("failed to look up store credit account: %w", err)
	}
	if out.Customer == nil {
		return "", fmt.Errorf("customer %s not found", customerID)
	}

	for _, edge := range out.Customer.StoreCreditAccounts.Edges {
		if edge.Node.Balance.CurrencyCode == currency {
			return edge.Node.ID, nil
		}
	}
	return "", nil
}

// CreditStoreCredit deposits the given amount onto a store-credit account.
// The target may be an account GID or a customer GID.
func (c *Client) CreditStoreCredit(ctx context.Context, s Session, targetID string, amount float64, currency string) error {
	query := `
		mutation storeCreditCredit($id: ID!, $creditInput: StoreCreditAccountCreditInput!) {
			storeCreditAccountCredit(id: $id, creditInput: $creditInput) {
				storeCreditAccountTransaction { amount { amount } }
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"id": targetID,
		"creditInput": map[string]any{
			"creditAmount": map[string]any{
				"amount":       formatAmount(amount),
				"currencyCode": currency,
			},
		},
	}

	var out struct {
		StoreCreditAccountCredit struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"storeCreditAccountCredit"`
	}
	if err := c.Post(ctx, s, query, variables, &out); err != nil {
		return fmt.Errorf("failed to credit store credit: %w", err)
	}
	return userErrorsToError("storeCreditAccountCredit", out.StoreCreditAccountCredit.UserErrors)
}
