package shopify

import (
	"context"
	"fmt"
	"time"
)

type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Note      string    `json:"note"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

const customerFields = `
	id
	firstName
	lastName
	email
	note
	tags
	createdAt`

type customerConnection struct {
	Customers struct {
		Edges []struct {
			Node Customer `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"customers"`
}

// SearchCustomers runs a customer search query (Shopify search syntax) and
// returns all matching customers, following pagination.
func (c *Client) SearchCustomers(ctx context.Context, s Session, search string) ([]Customer, error) {
	query := fmt.Sprintf(`
		query customerSearch($query: String!, $after: String) {
			customers(first: 100, query: $query, after: $after) {
				edges { node {%s} }
				pageInfo { hasNextPage endCursor }
			}
		}`, customerFields)

	var customers []Customer
	variables := map[string]any{"query": search, "after": nil}

	for {
		var out customerConnection
		if err := c.Post(ctx, s, query, variables, &out); err != nil {
			return nil, fmt.Errorf("failed to search customers: %w", err)
		}

		for _, edge := range out.Customers.Edges {
			customers = append(customers, edge.Node)
		}

		if !out.Customers.PageInfo.HasNextPage {
			return customers, nil
		}
		variables["after"] = out.Customers.PageInfo.EndCursor
	}
}

// SearchCustomersByTag lists customers carrying the given tag.
func (c *Client) SearchCustomersByTag(ctx context.Context, s Session, tag string) ([]Customer, error) {
	return c.SearchCustomers(ctx, s, fmt.Sprintf("tag:%s", tag))
}

// FindCustomerByEmail returns the first customer with the given email, or
// nil when none matches.
func (c *Client) FindCustomerByEmail(ctx context.Context, s Session, email string) (*Customer, error) {
	customers, err := c.SearchCustomers(ctx, s, fmt.Sprintf("email:%s", email))
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, nil
	}
	return &customers[0], nil
}

func (c *Client) GetCustomer(ctx context.Context, s Session, id string) (*Customer, error) {
	query := fmt.Sprintf(`
		query getCustomer($id: ID!) {
			customer(id: $id) {%s}
		}`, customerFields)

	var out struct {
		Customer *Customer `json:"customer"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id}, &out); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if out.Customer == nil {
		return nil, fmt.Errorf("customer %s not found", id)
	}
	return out.Customer, nil
}

// AddCustomerTags appends tags to a customer.
func (c *Client) AddCustomerTags(ctx context.Context, s Session, id string, tags []string) error {
	query := `
		mutation addTags($id: ID!, $tags: [String!]!) {
			tagsAdd(id: $id, tags: $tags) {
				userErrors { field message }
			}
		}`

	var out struct {
		TagsAdd struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"tagsAdd"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id, "tags": tags}, &out); err != nil {
		return fmt.Errorf("failed to add customer tags: %w", err)
	}
	return userErrorsToError("tagsAdd", out.TagsAdd.UserErrors)
}

// RemoveCustomerTags removes tags from a customer.
func (c *Client) RemoveCustomerTags(ctx context.Context, s Session, id string, tags []string) error {
	query := `
		mutation removeTags($id: ID!, $tags: [String!]!) {
			tagsRemove(id: $id, tags: $tags) {
				userErrors { field message }
			}
		}`

	var out struct {
		TagsRemove struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"tagsRemove"`
	}
	if err := c.Post(ctx, s, query, map[string]any{"id": id, "tags": tags}, &out); err != nil {
		return fmt.Errorf("failed to remove customer tags: %w", err)
	}
	return userErrorsToError("tagsRemove", out.TagsRemove.UserErrors)
}
