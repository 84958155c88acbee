// Package userclient calls the user service.
package userclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Skotchmaster/oss_shop/pkg/httpclient"
)

type UserDetails struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{http: httpclient.New(baseURL, timeout)}
}

func (c *Client) GetUserDetails(ctx context.Context, userID uint) (*UserDetails, error) {
	var out UserDetails
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", strconv.FormatUint(uint64(userID), 10)).
		SetResult(&out).
		Get("/auth/user/{userId}")
	if err := httpclient.Check(fmt.Sprintf("get user %d", userID), resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
