package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware records request count and duration per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := routeLabel(c.FullPath())
		status := strconv.Itoa(c.Writer.Status())
		RequestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// routeLabel keeps label cardinality bounded: unmatched paths share a label.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unmatched"
	}
	return fullPath
}

// Transport instruments content API calls made through next. A nil next
// uses http.DefaultTransport.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resource := resourceLabel(req.URL.Path)
		resp, err := next.RoundTrip(req)
		CMSRequestDuration.WithLabelValues(req.Method, resource).Observe(time.Since(start).Seconds())
		status := "error"
		if err == nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		CMSRequestTotal.WithLabelValues(req.Method, resource, status).Inc()
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// resourceLabel reduces a content API path to its collection or single type:
// /api/activities/3 -> activities, /admin/login -> admin_login.
func resourceLabel(p string) string {
	p = strings.Trim(p, "/")
	p = strings.TrimPrefix(p, "api/")
	parts := strings.SplitN(p, "/", 3)
	switch {
	case parts[0] == "":
		return "root"
	case parts[0] == "admin" || parts[0] == "users-permissions":
		if len(parts) >= 2 {
			return parts[0] + "_" + parts[1]
		}
	}
	return parts[0]
}
