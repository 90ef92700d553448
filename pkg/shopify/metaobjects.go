package shopify

import (
	"context"
	"fmt"
)

// Metaobject is a generic structured record. Field values are always
// strings on the wire; callers parse numbers and booleans themselves.
type Metaobject struct {
	ID     string
	Type   string
	Fields map[string]string
}

type metaobjectNode struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Fields []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"fields"`
}

func (n metaobjectNode) toMetaobject() Metaobject {
	fields := make(map[string]string, len(n.Fields))
	for _, f := range n.Fields {
		fields[f.Key] = f.Value
	}
	return Metaobject{ID: n.ID, Type: n.Type, Fields: fields}
}

func fieldsInput(fields map[string]string) []map[string]any {
	input := make([]map[string]any, 0, len(fields))
	for k, v := range fields {
		input = append(input, map[string]any{"key": k, "value": v})
	}
	return input
}

// CreateMetaobject creates a metaobject of the given definition type and
// returns its GID.
func (c *Client) CreateMetaobject(ctx context.Context, s Session, moType string, fields map[string]string) (string, error) {
	query := `
		mutation metaobjectCreate($metaobject: MetaobjectCreateInput!) {
			metaobjectCreate(metaobject: $metaobject) {
				metaobject { id }
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"metaobject": map[string]any{
			"type":   moType,
			"fields": fieldsInput(fields),
		},
	}

	var out struct {
		MetaobjectCreate struct {
			Metaobject *struct {
				ID string `json:"id"`
			} `json:"metaobject"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"metaobjectCreate"`
	}
	if err := c.Post(ctx, s, query, variables, &out); err != nil {
		return "", fmt.Errorf("failed to create metaobject: %w", err)
	}
	if err := userErrorsToError("metaobjectCreate", out.MetaobjectCreate.UserErrors); err != nil {
		return "", err
	}
	if out.MetaobjectCreate.Metaobject == nil {
		return "", fmt.Errorf("metaobjectCreate returned no metaobject")
	}
	return out.MetaobjectCreate.Metaobject.ID, nil
}

// ListMetaobjects returns every metaobject of the given type, following
// pagination. Record volume is small by design; callers scan linearly.
func (c *Client) ListMetaobjects(ctx context.Context, s Session, moType string) ([]Metaobject, error) {
	query := `
		query metaobjects($type: String!, $after: String) {
			metaobjects(type: $type, first: 100, after: $after) {
				edges {
					node {
						id
						type
						fields { key value }
					}
				}
				pageInfo { hasNextPage endCursor }
			}
		}`

	var objects []Metaobject
	variables := map[string]any{"type": moType, "after": nil}

	for {
		var out struct {
			Metaobjects struct {
				Edges []struct {
					Node metaobjectNode `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"metaobjects"`
		}
		if err := c.Post(ctx, s, query, variables, &out); err != nil {
			return nil, fmt.Errorf("failed to list metaobjects: %w", err)
		}

		for _, edge := range out.Metaobjects.Edges {
			objects = append(objects, edge.Node.toMetaobject())
		}

		if !out.Metaobjects.PageInfo.HasNextPage {
			return objects, nil
		}
		variables["after"] = out.Metaobjects.PageInfo.EndCursor
	}
}

func (c *Client) GetMetaobject(ctx context.Context, s Session, id string) (*Metaobject, error) {
	query := `
		query metaobject($id: ID!) {
			metaobject(id: $id) {
				id
				type
				fields { key value }
			}
		}`

	var out struct {
		Metaobject *metaobjectNode `json:"metaobject"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id}, &out); err != nil {
		return nil, fmt.Errorf("failed to get metaobject: %w", err)
	}
	if out.Metaobject == nil {
		return nil, nil
	}
	obj := out.Metaobject.toMetaobject()
	return &obj, nil
}

// UpdateMetaobject replaces the given fields; untouched fields keep their
// values.
func (c *Client) UpdateMetaobject(ctx context.Context, s Session, id string, fields map[string]string) error {
	query := `
		mutation metaobjectUpdate($id: ID!, $metaobject: MetaobjectUpdateInput!) {
			metaobjectUpdate(id: $id, metaobject: $metaobject) {
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"id":         id,
		"metaobject": map[string]any{"fields": fieldsInput(fields)},
	}

	var out struct {
		MetaobjectUpdate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metaobjectUpdate"`
	}
	if err := c.Post(ctx, s, query, variables, &out); err != nil {
		return fmt.Errorf("failed to update metaobject: %w", err)
	}
	return userErrorsToError("metaobjectUpdate", out.MetaobjectUpdate.UserErrors)
}

func (c *Client) DeleteMetaobject(ctx context.Context, s Session, id string) error {
	query := `
		mutation metaobjectDelete($id: ID!) {
			metaobjectDelete(id: $id) {
				userErrors { field message }
			}
		}`

	var out struct {
		MetaobjectDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metaobjectDelete"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id}, &out); err != nil {
		return fmt.Errorf("failed to delete metaobject: %w", err)
	}
	return userErrorsToError("metaobjectDelete", out.MetaobjectDelete.UserErrors)
}
