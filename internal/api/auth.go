package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"liftdesk/internal/domain"
)

const (
	loginEndpoint = "/auth/login"
	meEndpoint    = "/auth/me"
)

// Credentials are posted to the login endpoint
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Login exchanges credentials for a bearer token. The returned session has no user yet.
func (c *Client) Login(ctx context.Context, creds Credentials) (*domain.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, loginEndpoint, "", creds)
	if err != nil {
		return nil, err
	}

	var s domain.Session
	if err := json.Unmarshal(resp.body, &s); err != nil {
		return nil, errors.Wrap(err, "decode login response")
	}
	if s.Token == "" {
		return nil, errors.New("login response carried no access token")
	}
	if s.TokenType == "" {
		s.TokenType = "bearer"
	}
	return &s, nil
}

// Me returns the user the token belongs to
func (c *Client) Me(ctx context.Context, token string) (domain.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, meEndpoint, token, nil)
	if err != nil {
		return nil, err
	}
	return decodeItem(resp.body), nil
}
