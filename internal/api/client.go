package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds every request unless Options.Timeout overrides it
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies this client to the backend
	DefaultUserAgent = "LegendLift-Mobile-App"
)

// Options configures a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client talks to the LegendLift REST API. It holds no credentials: the
// bearer token is passed into every call.
type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	http      *http.Client
	log       logrus.FieldLogger
}

// New creates a client from opts, filling in defaults
func New(opts Options) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		log:       opts.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.log = c.log.WithField("component", "api")
	return c
}

// BaseURL returns the API root every relative endpoint is resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves endpoint against the base URL. Absolute URLs pass through.
func (c *Client) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// response is a completed 2xx exchange
type response struct {
	status int
	body   []byte
}

// do performs one request under the client timeout. Non-2xx statuses and
// transport failures come back as *FetchError.
func (c *Client) do(ctx context.Context, method, endpoint, token string, payload any) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint), body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, endpoint)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Bypass-Tunnel-Reminder", "true")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed without response")
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("reading response body failed")
		return nil, networkError(err)
	}

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start).String()})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := statusError(resp.StatusCode, data)
		log.WithField("detail", fe.Message).Warn("request rejected")
		return nil, fe
	}
	log.Debug("request completed")
	return &response{status: resp.StatusCode, body: data}, nil
}

// joinPath appends escaped segments to a resource path
func joinPath(resource string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(resource, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
