package strapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminSession is an admin panel JWT and its expiry.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the session is no longer usable at now.
func (s *AdminSession) Expired(now time.Time) bool {
	if s == nil || s.Token == "" {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AdminLogin exchanges admin credentials for an admin JWT via
// POST <MediaURL>/admin/login. The token is not verified locally; only its
// exp claim is read.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.cfg.MediaURL+"/admin/login", body, &resp); err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("admin login: no token in response")
	}

	session := &AdminSession{Token: resp.Data.Token}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Data.Token, &claims); err != nil {
		return nil, fmt.Errorf("admin login: malformed token: %w", err)
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
