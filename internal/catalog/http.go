package catalog

import (
	"context"
	"fmt"
	"time"
)

// modelList is the response body of GET /models.
type modelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HTTP lists models from an OpenAI-compatible /models endpoint.
type HTTP struct {
	client      *client
	recommended []string
}

// NewHTTP creates a remote catalog rooted at baseURL
// (e.g. https://api.openai.com/v1).
func NewHTTP(baseURL, apiKey string, recommended []string, timeout time.Duration) *HTTP {
	return &HTTP{
		client:      newClient(baseURL, apiKey, timeout),
		recommended: recommended,
	}
}

// AvailableModels fetches the model identifiers from the provider.
func (h *HTTP) AvailableModels(ctx context.Context) ([]string, error) {
	var list modelList
	if err := h.client.get(ctx, "/models", &list); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// Recommended returns the configured recommendation order.
func (h *HTTP) Recommended() []string {
	return h.recommended
}
