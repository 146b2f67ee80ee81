package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftdesk/internal/api/apitest"
	"liftdesk/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.BaseURL(), Logger: quietLogger()}), srv
}

func TestNormalizeCollection(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		key     string
		wantIDs []string
		wantOK  bool
	}{
		{"bare array", `[{"id":1},{"id":2}]`, "", []string{"1", "2"}, true},
		{"named property", `{"total_count":2,"users":[{"id":"a"},{"id":"b"}]}`, "users", []string{"a", "b"}, true},
		{"items fallback", `{"items":[{"id":7}],"total":1}`, "", []string{"7"}, true},
		{"wrong key is empty", `{"users":[{"id":1}]}`, "technicians", []string{}, false},
		{"scalar is empty", `42`, "", []string{}, false},
		{"garbage is empty", `<html>`, "", []string{}, false},
		{"non-object entries skipped", `[{"id":1},"x",3]`, "", []string{"1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := NormalizeCollection([]byte(tt.body), tt.key)
			require.NotNil(t, items)
			assert.Equal(t, tt.wantOK, ok)
			got := make([]string, len(items))
			for i, it := range items {
				got[i] = it.ID("")
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestFetchSendsHeadersAndNormalizes(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Seed("technicians", domain.Item{"id": json.Number("3"), "name": "Ravi"})

	items, err := c.Fetch(context.Background(), apitest.DefaultToken, "/admin/technicians", "users")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ravi", items[0].String("name"))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	h := reqs[0].Header
	assert.Equal(t, "Bearer "+apitest.DefaultToken, h.Get("Authorization"))
	assert.Equal(t, DefaultUserAgent, h.Get("User-Agent"))
	assert.Equal(t, "true", h.Get("Bypass-Tunnel-Reminder"))
	assert.NotEmpty(t, h.Get("X-Request-ID"))
}

func TestFetchUnauthorizedIsDistinct(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Fetch(context.Background(), "expired", "/callbacks/", "")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, fe.Status)
	assert.Equal(t, "Could not validate credentials", fe.Message)

	_, err = c.Fetch(context.Background(), "", "/callbacks/", "")
	assert.True(t, IsUnauthorized(err), "missing token is also unauthorized")
}

func TestFetchServerErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database unavailable"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Logger: quietLogger()})
	_, err := c.Fetch(context.Background(), "t", "/repairs/", "")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, fe.Kind)
	assert.Equal(t, 500, fe.Status)
	assert.Equal(t, "database unavailable", fe.Message)
	assert.False(t, IsUnauthorized(err))
}

func TestFetchValidationDetailList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"field required"},{"msg":"bad date"}]}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Logger: quietLogger()})
	_, err := c.Create(context.Background(), "t", "/customers/", map[string]any{})
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, "field required; bad date", fe.Message)
}

func TestFetchNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, Logger: quietLogger()})
	_, err := c.Fetch(context.Background(), "t", "/callbacks/", "")
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestFetchTimeoutIsNetwork(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Logger: quietLogger()})
	_, err := c.Fetch(context.Background(), "t", "/callbacks/", "")
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestWritePath(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	token := apitest.DefaultToken

	created, err := c.Create(ctx, token, "/callbacks/", map[string]any{"description": "door stuck"})
	require.NoError(t, err)
	id := created.ID("")
	require.NotEmpty(t, id)
	assert.Equal(t, "door stuck", created.String("description"))

	updated, err := c.Update(ctx, token, "/callbacks/", id, map[string]any{"description": "door fixed"})
	require.NoError(t, err)
	assert.Equal(t, "door fixed", updated.String("description"))

	require.NoError(t, c.Assign(ctx, token, "/callbacks/", id, "technician_id", "12"))
	assert.Equal(t, []string{"12"}, srv.Find("callbacks", id).Strings("technicians"))

	require.NoError(t, c.Unassign(ctx, token, "/callbacks/", id, "12"))
	assert.Empty(t, srv.Find("callbacks", id).Strings("technicians"))

	require.NoError(t, c.Delete(ctx, token, "/callbacks/", id))
	assert.Nil(t, srv.Find("callbacks", id))

	var paths []string
	for _, r := range srv.Requests() {
		paths = append(paths, r.Method+" "+r.Path)
	}
	assert.Equal(t, []string{
		"POST /api/v1/callbacks/",
		"PUT /api/v1/callbacks/" + id,
		"POST /api/v1/callbacks/" + id + "/assign",
		"DELETE /api/v1/callbacks/" + id + "/unassign/12",
		"DELETE /api/v1/callbacks/" + id,
	}, paths)
	assert.JSONEq(t, `{"technician_id":12}`, string(srv.Requests()[2].Body))
}

func TestAssignFailureIsServerError(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Seed("callbacks", domain.Item{"id": json.Number("5")})
	srv.FailAssign("9", http.StatusConflict)

	err := c.Assign(context.Background(), apitest.DefaultToken, "/callbacks/", "5", "technician_id", "9")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, fe.Kind)
	assert.Equal(t, "Technician 9 is not available", fe.Message)
}

func TestLoginAndMe(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	_, err := c.Login(ctx, Credentials{Email: srv.Email, Password: "wrong"})
	require.Error(t, err)
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, "Incorrect email or password", fe.Message)

	s, err := c.Login(ctx, Credentials{Email: srv.Email, Password: srv.Password, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, apitest.DefaultToken, s.Token)

	me, err := c.Me(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", me.String("role"))
}

func TestURLResolution(t *testing.T) {
	c := New(Options{BaseURL: "http://host/api/v1/", Logger: quietLogger()})
	assert.Equal(t, "http://host/api/v1/callbacks/", c.URL("/callbacks/"))
	assert.Equal(t, "http://host/api/v1/callbacks/", c.URL("callbacks/"))
	assert.Equal(t, "https://other/x", c.URL("https://other/x"))
	assert.Equal(t, "/callbacks/4/unassign/a%20b", joinPath("/callbacks/", "4", "unassign", "a b"))
}
