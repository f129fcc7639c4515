package ninjakiwi

import (
	"context"
	"errors"
	"net/url"

	"mlbot/utils/requests"
)

const (
	ENDPOINT_USERS      = "/btd6/users"
	ENDPOINT_CUSTOM_MAP = "/btd6/maps/map"
)

// Every Open Data response is wrapped in one of these.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Body    T      `json:"body"`
}

type User struct {
	DisplayName string `json:"displayName"`
	Rank        int    `json:"rank"`
	VeteranRank int    `json:"veteranRank"`
	AvatarURL   string `json:"avatarURL"`
	BannerURL   string `json:"bannerURL"`
}

type CustomMap struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	Creator   string `json:"creator"`
	MapURL    string `json:"mapURL"`
}

// Read-only client for Ninja Kiwi's BTD6 Open Data API.
type Client struct {
	baseURL string
	req     *requests.Client
}

func New(baseURL string, req *requests.Client) *Client {
	return &Client{baseURL: baseURL, req: req}
}

// Looks up a player by their Open Access Key. A nil user means NK doesn't know the key.
func (c *Client) User(ctx context.Context, oak string) (*User, error) {
	return fetch[User](ctx, c, ENDPOINT_USERS+"/"+url.PathEscape(oak))
}

// Looks up a custom map by its code. A nil map means it doesn't exist.
func (c *Client) CustomMap(ctx context.Context, code string) (*CustomMap, error) {
	return fetch[CustomMap](ctx, c, ENDPOINT_CUSTOM_MAP+"/"+url.PathEscape(code))
}

// Bad statuses and unsuccessful envelopes both mean "not found" to callers,
// only transport and decoding failures are errors.
func fetch[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	res, err := requests.JsonGet[envelope[T]](ctx, c.req, c.baseURL+endpoint)
	if err != nil {
		var herr *requests.HTTPError
		if errors.As(err, &herr) {
			return nil, nil
		}

		return nil, err
	}

	if !res.Success {
		return nil, nil
	}

	return &res.Body, nil
}
