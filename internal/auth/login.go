// Package auth holds the thin login call used to seed the session. Token
// refresh and storage mechanics live in internal/session.
package auth

import (
	"context"
	"errors"

	"github.com/example/storefront-client/internal/apiclient"
	"github.com/example/storefront-client/internal/session"
)

var ErrMissingCredentials = errors.New("email and password are required")

type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	User        session.User `json:"user"`
}

// Login exchanges credentials for a bearer token and profile. Persisting them
// is the caller's job.
func Login(ctx context.Context, api *apiclient.Client, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := api.Post(ctx, "/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
