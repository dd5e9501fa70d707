package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLabel(t *testing.T) {
	tests := map[string]string{
		"":                               "root",
		"/api":                           "api",
		"/api/activities":                "activities",
		"/api/activities/3":              "activities",
		"/api/home-page":                 "home-page",
		"/admin/login":                   "admin_login",
		"/api/users-permissions/roles/2": "users-permissions_roles",
		"/api/upload/files":              "upload",
	}
	for in, want := range tests {
		assert.Equal(t, want, resourceLabel(in), in)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/activities/:slug", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/activities/:slug", "404"))
	unmatched := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))

	for _, path := range []string{"/activities/a", "/activities/b", "/nowhere"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/activities/:slug", "404")))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	counter := CMSRequestTotal.WithLabelValues(http.MethodGet, "home-page", "418")
	before := testutil.ToFloat64(counter)

	client := &http.Client{Transport: Transport(nil)}
	resp, err := client.Get(srv.URL + "/api/home-page?populate=*")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestTransport_Error(t *testing.T) {
	failing := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	counter := CMSRequestTotal.WithLabelValues(http.MethodGet, "activities", "error")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "http://cms.local/api/activities", nil)
	_, err := Transport(failing).RoundTrip(req)
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestObserve(t *testing.T) {
	ok := OperationsTotal.WithLabelValues("seed_activity", StatusOK)
	failed := OperationsTotal.WithLabelValues("seed_activity", StatusError)
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	Observe("seed_activity", nil)
	Observe("seed_activity", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}
