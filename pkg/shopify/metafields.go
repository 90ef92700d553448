package shopify

import (
	"context"
	"fmt"
)

// GetShopMetafield reads a shop-level metafield value, "" when unset.
func (c *Client) GetShopMetafield(ctx context.Context, s Session, namespace, key string) (string, error) {
	query := `
		query shopMetafield($namespace: String!, $key: String!) {
			shop {
				metafield(namespace: $namespace, key: $key) { value }
			}
		}`

	var out struct {
		Shop struct {
			Metafield *struct {
				Value string `json:"value"`
			} `json:"metafield"`
		} `json:"shop"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"namespace": namespace, "key": key}, &out); err != nil {
		return "", fmt.Errorf("failed to get shop metafield: %w", err)
	}
	if out.Shop.Metafield == nil {
		return "", nil
	}
	return out.Shop.Metafield.Value, nil
}

// SetShopMetafield writes a shop-level JSON metafield.
func (c *Client) SetShopMetafield(ctx context.Context, s Session, namespace, key, value string) error {
	shopID, err := c.getShopID(ctx, s)
	if err != nil {
		return err
	}

	query := `
		mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
			metafieldsSet(metafields: $metafields) {
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"metafields": []map[string]any{
			{
				"ownerId":   shopID,
				"namespace": namespace,
				"key":       key,
				"type":      "json",
				"value":     value,
			},
		},
	}

	var out struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := c.Post(ctx, s, query, variables, &out); err != nil {
		return fmt.Errorf("failed to set shop metafield: %w", err)
	}
	return userErrorsToError("metafieldsSet", out.MetafieldsSet.UserErrors)
}

func (c *Client) getShopID(ctx context.Context, s Session) (string, error) {
	var out struct {
		Shop struct {
			ID string `json:"id"`
		} `json:"shop"`
	}
	if err := c.Post(ctx, s, `query { shop { id } }`, nil, &out); err != nil {
		return "", fmt.Errorf("failed to get shop id: %w", err)
	}
	return out.Shop.ID, nil
}
