package bankapi

import (
	"context"
	"net/http"

	"github.com/yungbote/bankadmin/internal/domain"
)

func (c *Client) Authenticate(ctx context.Context, email, password string) (domain.AccessToken, error) {
	var tok domain.AccessToken
	body := map[string]string{"email": email, "password": password}
	_, err := c.do(ctx, request{method: http.MethodPost, path: "users/authenticate", endpoint: "users/authenticate", body: body}, &tok)
	return tok, err
}

func (c *Client) Me(ctx context.Context, token string) (domain.Profile, error) {
	var p domain.Profile
	_, err := c.Get(ctx, "me", token, &p)
	return p, err
}

func (c *Client) CreateUser(ctx context.Context, token string, req domain.CreateUserRequest) (domain.CreatedUser, error) {
	var u domain.CreatedUser
	_, err := c.Post(ctx, "users", token, req, &u)
	return u, err
}
