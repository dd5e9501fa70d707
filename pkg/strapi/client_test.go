package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type activity struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Featured bool   `json:"featured"`
	Timestamps
}

func testClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIURL:   srv.URL + "/api/",
		MediaURL: srv.URL,
		Token:    token,
	}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestClient_GetBuildsURLAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotContentType string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"attributes":{"title":"青年领导力工作坊","slug":"youth-leadership-workshop","featured":true,"createdAt":"2025-01-01"}}],"meta":{"pagination":{"page":1,"pageSize":9,"pageCount":1,"total":1}}}`))
	}, "secret")

	resp, err := FetchCollection[activity](context.Background(), c, "activities", FetchOptions{
		Filters:    []Filter{Eq("featured", true)},
		Sort:       []string{"startDate:desc"},
		Pagination: &Pagination{PageSize: Int(9)},
		Populate:   All,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/activities", gotPath)
	assert.Equal(t, "filters%5Bfeatured%5D%5B%24eq%5D=true&sort%5B0%5D=startDate%3Adesc&pagination%5BpageSize%5D=9&populate=*", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Data[0].ID)
	assert.Equal(t, "youth-leadership-workshop", resp.Data[0].Attributes.Slug)
	assert.Equal(t, "2025-01-01", resp.Data[0].Attributes.CreatedAt)
	require.NotNil(t, resp.Meta.Pagination)
	assert.Equal(t, 9, resp.Meta.Pagination.PageSize)
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	var sawAuth bool
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"data":null}`))
	}, "")

	resp, err := FetchSingleType[map[string]any](context.Background(), c, "home-page", FetchOptions{})
	require.NoError(t, err)
	assert.False(t, sawAuth)
	assert.Nil(t, resp.Data)
	assert.Nil(t, ExtractAttributes(resp.Data))
}

func TestClient_TransportError(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"status":403,"name":"ForbiddenError"}}`))
	}, "")

	_, err := c.FetchRaw(context.Background(), "activities", FetchOptions{})
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusForbidden, te.StatusCode)
	assert.Equal(t, "Forbidden", te.StatusText)
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Contains(t, te.Body, "ForbiddenError")
	assert.Equal(t, "strapi api error: 403 Forbidden", err.Error())
	assert.False(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load(), "failed requests are not retried")
}

func TestClient_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, "")

	_, err := FetchSingle[activity](context.Background(), c, "activities", 42, FetchOptions{
		Filters:  []Filter{Eq("slug", "ignored")},
		Populate: All,
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.URL, "/api/activities/42?populate=*")
	assert.NotContains(t, te.URL, "filters")
}

func TestClient_DecodeError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}, "")

	_, err := FetchCollection[activity](context.Background(), c, "activities", FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding error")
}

func TestClient_FetchRawVerbatim(t *testing.T) {
	body := `{"data":{"id":1,"attributes":{"sections":[{"__component":"sections.hero"}]}},"meta":{}}`
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}, "")

	raw, err := c.FetchRaw(context.Background(), "/home-page/", FetchOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
}

func TestClient_EmptyResource(t *testing.T) {
	c := NewClient(DefaultConfig())
	assert.ErrorIs(t, c.Get(context.Background(), "/", FetchOptions{}, nil), ErrEmptyResource)
	assert.ErrorIs(t, c.Do(context.Background(), http.MethodPut, "", nil, nil), ErrEmptyResource)
}

func TestClient_ContextDeadline(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Get(ctx, "activities", FetchOptions{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_CreateAndUpdateWrapData(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, call{method: r.Method, path: r.URL.Path, body: body})
		_, _ = w.Write([]byte(`{"data":{"id":7,"attributes":{}}}`))
	}, "token")

	var created Response[*Entity[map[string]any]]
	require.NoError(t, c.Create(context.Background(), "activities", map[string]any{"title": "x"}, &created))
	require.NotNil(t, created.Data)
	assert.Equal(t, 7, created.Data.ID)

	require.NoError(t, c.Update(context.Background(), "home-page", map[string]any{"title": "home"}, nil))

	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/api/activities", calls[0].path)
	assert.Equal(t, map[string]any{"data": map[string]any{"title": "x"}}, calls[0].body)
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/api/home-page", calls[1].path)
}

func TestClient_IndexedPopulateStyle(t *testing.T) {
	c := NewClient(Config{APIURL: "http://cms/api", PopulateStyle: PopulateIndexed})
	assert.Equal(t, "http://cms/api/activities?populate%5B0%5D=seo", c.URL("activities", FetchOptions{Populate: Fields("seo")}))
}

func TestClient_WithToken(t *testing.T) {
	c := NewClient(Config{APIURL: "http://cms/api", Token: "a"})
	other := c.WithToken("b")
	assert.Equal(t, "a", c.Config().Token)
	assert.Equal(t, "b", other.Config().Token)
}

func TestClient_AdminLogin(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("cms-secret"))
	require.NoError(t, err)

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/login", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.True(t, bytes.Contains(body, []byte(`"email":"admin@example.org"`)))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"token": token}})
	}, "")

	session, err := c.AdminLogin(context.Background(), "admin@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
	assert.True(t, exp.Equal(session.ExpiresAt))
	assert.False(t, session.Expired(time.Now()))
	assert.True(t, session.Expired(exp.Add(time.Second)))

	_, err = c.AdminLogin(context.Background(), "", "")
	assert.Error(t, err)
}

func TestClient_AdminLoginMalformedToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"token":"not-a-jwt"}}`))
	}, "")

	_, err := c.AdminLogin(context.Background(), "admin@example.org", "pw")
	assert.ErrorContains(t, err, "malformed token")
}

func TestAdminSession_ExpiredWithoutExp(t *testing.T) {
	var nilSession *AdminSession
	assert.True(t, nilSession.Expired(time.Now()))
	assert.False(t, (&AdminSession{Token: "t"}).Expired(time.Now()))
}
