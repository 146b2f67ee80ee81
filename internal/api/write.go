package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"liftdesk/internal/domain"
)

// Create POSTs a new entity to resource and returns the persisted entity
func (c *Client) Create(ctx context.Context, token, resource string, body any) (domain.Item, error) {
	resp, err := c.do(ctx, http.MethodPost, resource, token, body)
	if err != nil {
		return nil, err
	}
	return decodeItem(resp.body), nil
}

// Update PUTs body to resource/id and returns the persisted entity
func (c *Client) Update(ctx context.Context, token, resource, id string, body any) (domain.Item, error) {
	resp, err := c.do(ctx, http.MethodPut, joinPath(resource, id), token, body)
	if err != nil {
		return nil, err
	}
	return decodeItem(resp.body), nil
}

// Delete removes resource/id
func (c *Client) Delete(ctx context.Context, token, resource, id string) error {
	_, err := c.do(ctx, http.MethodDelete, joinPath(resource, id), token, nil)
	return err
}

// Assign adds memberID to the entity's association via POST resource/id/assign
func (c *Client) Assign(ctx context.Context, token, resource, id, memberIDField, memberID string) error {
	body := map[string]any{memberIDField: memberIDValue(memberID)}
	_, err := c.do(ctx, http.MethodPost, joinPath(resource, id, "assign"), token, body)
	return err
}

// Unassign removes memberID via DELETE resource/id/unassign/memberID
func (c *Client) Unassign(ctx context.Context, token, resource, id, memberID string) error {
	_, err := c.do(ctx, http.MethodDelete, joinPath(resource, id, "unassign", memberID), token, nil)
	return err
}

// memberIDValue sends integer ids as JSON numbers, everything else as strings
func memberIDValue(id string) any {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.Number(id)
	}
	return id
}
