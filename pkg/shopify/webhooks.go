package shopify

import (
	"context"
	"fmt"
)

const (
	TopicOrdersCreate   = "ORDERS_CREATE"
	TopicAppUninstalled = "APP_UNINSTALLED"
)

type WebhookSubscription struct {
	ID          string
	Topic       string
	CallbackURL string
}

func (c *Client) ListWebhookSubscriptions(ctx context.Context, s Session) ([]WebhookSubscription, error) {
	query := `
		query webhookSubscriptions {
			webhookSubscriptions(first: 50) {
				edges {
					node {
						id
						topic
						endpoint {
							... on WebhookHttpEndpoint { callbackUrl }
						}
					}
				}
			}
		}`

	var out struct {
		WebhookSubscriptions struct {
			Edges []struct {
				Node struct {
					ID       string `json:"id"`
					Topic    string `json:"topic"`
					Endpoint struct {
						CallbackURL string `json:"callbackUrl"`
					} `json:"endpoint"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"webhookSubscriptions"`
	}
	if err := c.Post(ctx, s, query, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list webhook subscriptions: %w", err)
	}

	subs := make([]WebhookSubscription, 0, len(out.WebhookSubscriptions.Edges))
	for _, edge := range out.WebhookSubscriptions.Edges {
		subs = append(subs, WebhookSubscription{
			ID:          edge.Node.ID,
			Topic:       edge.Node.Topic,
			CallbackURL: edge.Node.Endpoint.CallbackURL,
		})
	}
	return subs, nil
}

func (c *Client) CreateWebhookSubscription(ctx context.Context, s Session, topic, callbackURL string) (string, error) {
	query := `
		mutation webhookCreate($topic: WebhookSubscriptionTopic!, $webhookSubscription: WebhookSubscriptionInput!) {
			webhookSubscriptionCreate(topic: $topic, webhookSubscription: $webhookSubscription) {
				webhookSubscription { id }
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"topic": topic,
		"webhookSubscription": map[string]any{
			"callbackUrl": callbackURL,
			"format":      "JSON",
		},
	}

	var out struct {
		WebhookSubscriptionCreate struct {
			WebhookSubscription *struct {
				ID string `json:"id"`
			} `json:"webhookSubscription"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"webhookSubscriptionCreate"`
	}
	if err := c.Post(ctx, s, query, variables, &out); err != nil {
		return "", fmt.Errorf("failed to create webhook subscription: %w", err)
	}
	if err := userErrorsToError("webhookSubscriptionCreate", out.WebhookSubscriptionCreate.UserErrors); err != nil {
		return "", err
	}
	if out.WebhookSubscriptionCreate.WebhookSubscription == nil {
		return "", fmt.Errorf("webhookSubscriptionCreate returned no subscription")
	}
	return out.WebhookSubscriptionCreate.WebhookSubscription.ID, nil
}
