package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kingrain94/tagorder-api/internal/utils"
)

// RemoteVerifier asks the auth service who a token belongs to. Used when no
// JWT secret is configured.
type RemoteVerifier struct {
	client *resty.Client
}

type authUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewRemoteVerifier(baseURL, anonKey string) *RemoteVerifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("apikey", anonKey).
		SetHeader("Accept", "application/json")

	return &RemoteVerifier{client: client}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (utils.Identity, error) {
	if token == "" {
		return utils.Identity{}, ErrInvalidToken
	}

	var user authUserResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return utils.Identity{}, fmt.Errorf("failed to call auth service: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return utils.Identity{}, ErrInvalidToken
	case resp.IsError():
		return utils.Identity{}, fmt.Errorf("auth service returned status %d", resp.StatusCode())
	case user.ID == "":
		return utils.Identity{}, ErrInvalidToken
	}

	return utils.Identity{UserID: user.ID, Email: user.Email}, nil
}
