package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Keenwby/polaris-youth-platform/pkg/errors"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
)

func TestFromCMS(t *testing.T) {
	assert.Nil(t, fromCMS(nil))

	notFound := &strapi.TransportError{StatusCode: http.StatusNotFound, StatusText: "Not Found"}
	got := fromCMS(fmt.Errorf("fetch activity: %w", notFound))
	require.NotNil(t, got)
	assert.Equal(t, http.StatusNotFound, got.Code)

	unavailable := &strapi.TransportError{StatusCode: http.StatusServiceUnavailable, StatusText: "Service Unavailable"}
	got = fromCMS(unavailable)
	assert.Equal(t, http.StatusBadGateway, got.Code)
	assert.ErrorIs(t, got, unavailable)

	got = fromCMS(fmt.Errorf("dial tcp: connection refused"))
	assert.Equal(t, http.StatusBadGateway, got.Code)

	existing := apperrors.Internal(fmt.Errorf("boom"))
	assert.Same(t, existing, fromCMS(fmt.Errorf("wrapped: %w", existing)))
}
