package strapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResource is returned when a request is made without a resource path.
var ErrEmptyResource = errors.New("strapi: empty resource path")

// TransportError reports a non-2xx response from the content API.
type TransportError struct {
	StatusCode int
	StatusText string
	Method     string
	URL        string
	Body       string // truncated response body, for logs
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("strapi api error: %d %s", e.StatusCode, e.StatusText)
}

// IsNotFound reports whether err is a 404 from the content API.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusNotFound
}
