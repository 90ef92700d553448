package shopify

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type Order struct {
	ID        string
	Name      string
	Subtotal  float64
	Currency  string
	CreatedAt time.Time
}

// SearchOrders runs an order search (Shopify search syntax, e.g.
// "discount_code:PRO_DUJE created_at:>=2025-01-01") and returns up to limit
// matches, following pagination.
func (c *Client) SearchOrders(ctx context.Context, s Session, search string, limit int) ([]Order, error) {
	query := `
		query orderSearch($query: String!, $first: Int!, $after: String) {
			orders(first: $first, query: $query, after: $after) {
				edges {
					node {
						id
						name
						createdAt
						subtotalPriceSet { shopMoney { amount currencyCode } }
					}
				}
				pageInfo { hasNextPage endCursor }
			}
		}`

	var orders []Order
	variables := map[string]any{"query": search, "first": pageSize(limit), "after": nil}

	for {
		var out struct {
			Orders struct {
				Edges []struct {
					Node struct {
						ID               string    `json:"id"`
						Name             string    `json:"name"`
						CreatedAt        time.Time `json:"createdAt"`
						SubtotalPriceSet struct {
							ShopMoney struct {
								Amount       string `json:"amount"`
								CurrencyCode string `json:"currencyCode"`
							} `json:"shopMoney"`
						} `json:"subtotalPriceSet"`
					} `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"orders"`
		}
		if err := c.Post(ctx, s, query, variables, &out); err != nil {
			return nil, fmt.Errorf("failed to search orders: %w", err)
		}

		for _, edge := range out.Orders.Edges {
			amount, _ := strconv.ParseFloat(edge.Node.SubtotalPriceSet.ShopMoney.Amount, 64)
			orders = append(orders, Order{
				ID:        edge.Node.ID,
				Name:      edge.Node.Name,
				Subtotal:  amount,
				Currency:  edge.Node.SubtotalPriceSet.ShopMoney.CurrencyCode,
				CreatedAt: edge.Node.CreatedAt,
			})
			if len(orders) >= limit {
				return orders, nil
			}
		}

		if !out.Orders.PageInfo.HasNextPage {
			return orders, nil
		}
		variables["after"] = out.Orders.PageInfo.EndCursor
	}
}

func pageSize(limit int) int {
	if limit < 100 {
		return limit
	}
	return 100
}
