package shopify

import (
	"context"
	"fmt"
)

// DiscountInput describes a basic code discount. ValueType is "percentage"
// or "fixed"; percentage values are whole numbers (10 means 10%).
type DiscountInput struct {
	Code      string
	Value     float64
	ValueType string
	Currency  string
}

func (d DiscountInput) customerGets() map[string]any {
	var value map[string]any
	if d.ValueType == "fixed" {
		value = map[string]any{
			"discountAmount": map[string]any{
				"amount":            formatAmount(d.Value),
				"appliesOnEachItem": false,
			},
		}
	} else {
		value = map[string]any{
			"percentage": d.Value / 100,
		}
	}

	return map[string]any{
		"value": value,
		"items": map[string]any{"all": true},
	}
}

func (d DiscountInput) basicCodeInput() map[string]any {
	return map[string]any{
		"title":             d.Code,
		"code":              d.Code,
		"startsAt":          "2020-01-01T00:00:00Z",
		"customerSelection": map[string]any{"all": true},
		"customerGets":      d.customerGets(),
	}
}

// CreateBasicDiscount creates a code discount and returns its node GID.
func (c *Client) CreateBasicDiscount(ctx context.Context, s Session, input DiscountInput) (string, error) {
	query := `
		mutation discountCreate($basicCodeDiscount: DiscountCodeBasicInput!) {
			discountCodeBasicCreate(basicCodeDiscount: $basicCodeDiscount) {
				codeDiscountNode { id }
				userErrors { field message }
			}
		}`

	var out struct {
		DiscountCodeBasicCreate struct {
			CodeDiscountNode *struct {
				ID string `json:"id"`
			} `json:"codeDiscountNode"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"discountCodeBasicCreate"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"basicCodeDiscount": input.basicCodeInput()}, &out); err != nil {
		return "", fmt.Errorf("failed to create discount: %w", err)
	}
	if err := userErrorsToError("discountCodeBasicCreate", out.DiscountCodeBasicCreate.UserErrors); err != nil {
		return "", err
	}
	if out.DiscountCodeBasicCreate.CodeDiscountNode == nil {
		return "", fmt.Errorf("discountCodeBasicCreate returned no node")
	}
	return out.DiscountCodeBasicCreate.CodeDiscountNode.ID, nil
}

// UpdateBasicDiscount rewrites the code, value, and type of an existing
// discount.
func (c *Client) UpdateBasicDiscount(ctx context.Context, s Session, id string, input DiscountInput) error {
	query := `
		mutation discountUpdate($id: ID!, $basicCodeDiscount: DiscountCodeBasicInput!) {
			discountCodeBasicUpdate(id: $id, basicCodeDiscount: $basicCodeDiscount) {
				userErrors { field message }
			}
		}`

	var out struct {
		DiscountCodeBasicUpdate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"discountCodeBasicUpdate"`
	}
	variables := map[string]any{"id": id, "basicCodeDiscount": input.basicCodeInput()}
	if err := c.Post(ctx, s, query, variables, &out); err != nil {
		return fmt.Errorf("failed to update discount: %w", err)
	}
	return userErrorsToError("discountCodeBasicUpdate", out.DiscountCodeBasicUpdate.UserErrors)
}

func (c *Client) DeleteDiscount(ctx context.Context, s Session, id string) error {
	query := `
		mutation discountDelete($id: ID!) {
			discountCodeDelete(id: $id) {
				userErrors { field message }
			}
		}`

	var out struct {
		DiscountCodeDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"discountCodeDelete"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id}, &out); err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	return userErrorsToError("discountCodeDelete", out.DiscountCodeDelete.UserErrors)
}

// SetDiscountActive activates or deactivates a discount.
func (c *Client) SetDiscountActive(ctx context.Context, s Session, id string, active bool) error {
	op := "discountCodeDeactivate"
	if active {
		op = "discountCodeActivate"
	}

	query := fmt.Sprintf(`
		mutation discountToggle($id: ID!) {
			%s(id: $id) {
				userErrors { field message }
			}
		}`, op)

	var out map[string]struct {
		UserErrors []UserError `json:"userErrors"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id}, &out); err != nil {
		return fmt.Errorf("failed to toggle discount: %w", err)
	}
	return userErrorsToError(op, out[op].UserErrors)
}

// DiscountExists checks whether the discount node behind a stored GID is
// still there. Partner records hold the pairing by ID only, so the link has
// to be re-validated before updates.
func (c *Client) DiscountExists(ctx context.Context, s Session, id string) (bool, error) {
	query := `
		query discountNode($id: ID!) {
			codeDiscountNode(id: $id) { id }
		}`

	var out struct {
		CodeDiscountNode *struct {
			ID string `json:"id"`
		} `json:"codeDiscountNode"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id}, &out); err != nil {
		return false, fmt.Errorf("failed to look up discount: %w", err)
	}
	return out.CodeDiscountNode != nil, nil
}

// DiscountCodeInUse checks whether any discount already uses the given code.
func (c *Client) DiscountCodeInUse(ctx context.Context, s Session, code string) (bool, error) {
	query := `
		query discountByCode($code: String!) {
			codeDiscountNodeByCode(code: $code) { id }
		}`

	var out struct {
		CodeDiscountNodeByCode *struct {
			ID string `json:"id"`
		} `json:"codeDiscountNodeByCode"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"code": code}, &out); err != nil {
		return false, fmt.Errorf("failed to look up discount code: %w", err)
	}
	return out.CodeDiscountNodeByCode != nil, nil
}
