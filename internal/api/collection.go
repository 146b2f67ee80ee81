package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"liftdesk/internal/domain"
)

// FallbackCollectionKey is tried when a caller names no collection key and
// the endpoint answers with an object
const FallbackCollectionKey = "items"

// Fetch loads a whole collection with a single GET. Every call is a full
// refetch; nothing is cached and failures are not retried.
//
// The response may be a bare JSON array or an object carrying the array
// under collectionKey. Anything else is treated as an empty collection.
func (c *Client) Fetch(ctx context.Context, token, endpoint, collectionKey string) ([]domain.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	items, ok := NormalizeCollection(resp.body, collectionKey)
	if !ok {
		c.log.WithField("endpoint", endpoint).Debug("unrecognised collection shape, treating as empty")
	}
	return items, nil
}

// NormalizeCollection decodes body into items. The boolean is false when the
// body had neither supported shape; the returned slice is then empty, never nil.
func NormalizeCollection(body []byte, collectionKey string) ([]domain.Item, bool) {
	raw, err := decode(body)
	if err != nil {
		return []domain.Item{}, false
	}

	switch v := raw.(type) {
	case []any:
		return toItems(v), true
	case map[string]any:
		key := collectionKey
		if key == "" {
			key = FallbackCollectionKey
		}
		if arr, ok := v[key].([]any); ok {
			return toItems(arr), true
		}
	}
	return []domain.Item{}, false
}

// decodeItem decodes a single-object response. Empty bodies yield an empty item.
func decodeItem(body []byte) domain.Item {
	raw, err := decode(body)
	if err != nil {
		return domain.Item{}
	}
	if obj, ok := raw.(map[string]any); ok {
		return domain.Item(obj)
	}
	return domain.Item{}
}

func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func toItems(arr []any) []domain.Item {
	items := make([]domain.Item, 0, len(arr))
	for _, entry := range arr {
		if obj, ok := entry.(map[string]any); ok {
			items = append(items, domain.Item(obj))
		}
	}
	return items
}
