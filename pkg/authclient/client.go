package authclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Skotchmaster/oss_shop/pkg/httpclient"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
)

type Client struct {
	http *resty.Client
}

func NewClient(authServiceURL string, timeout time.Duration) *Client {
	return &Client{http: httpclient.New(authServiceURL, timeout)}
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	IsAdmin      bool   `json:"is_admin"`
}

func (c *Client) RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*RefreshResponse, error) {
	var result RefreshResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetCookies([]*http.Cookie{
			{Name: jwthelp.RefreshCookie, Value: refreshToken},
			{Name: jwthelp.AccessCookie, Value: accessToken},
		}).
		SetResult(&result).
		Post("/auth/refresh")
	if err := httpclient.Check("refresh tokens", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}
