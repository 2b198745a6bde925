package clients

import (
	"context"
	"time"

	shophttp "github.com/shashiranjanraj/kashvi-shop/pkg/http"
)

// UserClient registers and logs in users against the user service.
type UserClient struct {
	peer
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{peer: newPeer("User Service", baseURL, timeout)}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *UserClient) Register(ctx context.Context, email, password string) error {
	_, err := c.send(shophttp.Post(c.url("/register")).
		WithContext(ctx).
		Body(credentials{Email: email, Password: password}))
	return err
}

// Login returns the bearer token issued by the user service.
func (c *UserClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.send(shophttp.Post(c.url("/login")).
		WithContext(ctx).
		Body(credentials{Email: email, Password: password}))
	if err != nil {
		return "", err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.decode(resp, &body); err != nil {
		return "", err
	}
	return body.Token, nil
}
