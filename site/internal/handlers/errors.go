package handlers

import (
	"errors"

	apperrors "github.com/Keenwby/polaris-youth-platform/pkg/errors"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
)

// fromCMS maps a content API failure onto an AppError. A 404 from the CMS
// stays a 404; every other failure is reported as a bad gateway.
func fromCMS(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if strapi.IsNotFound(err) {
		return apperrors.NotFound("content not found")
	}
	return apperrors.BadGateway("content service unavailable", err)
}
