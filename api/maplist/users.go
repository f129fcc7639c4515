package maplist

import (
	"context"
	"net/url"
	"path"
	"strconv"

	"mlbot/utils/pagination"
)

// Who a write is made on behalf of.
type DiscordUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type userPayload struct {
	User DiscordUser `json:"user"`
	OAK  string      `json:"oak,omitempty"`
}

// Gets a user's Maplist profile. noLoadOAK skips resolving their NK profile, which is much faster
// when only the Maplist side (e.g. has_seen_popup) is needed.
func (c *Client) User(ctx context.Context, userID string, noLoadOAK bool) (Profile, error) {
	var query url.Values
	if noLoadOAK {
		query = url.Values{"no_load_oak": {"true"}}
	}

	return get[Profile](ctx, c, ENDPOINT_USERS+"/"+url.PathEscape(userID), query, "user")
}

func (c *Client) Completions(ctx context.Context, userID string, page int) (CompletionsPage, error) {
	return get[CompletionsPage](ctx, c, ENDPOINT_USERS+"/"+url.PathEscape(userID)+"/completions", pageQuery(page), "user")
}

// A backend page fetcher over a user's completions, for use with [pagination.FetchEach].
func (c *Client) CompletionsPages(userID string) pagination.PageFunc[Completion] {
	return func(ctx context.Context, page int) (pagination.BackendPage[Completion], error) {
		res, err := c.Completions(ctx, userID, page)
		if err != nil {
			return pagination.BackendPage[Completion]{}, err
		}

		return pagination.BackendPage[Completion]{Items: res.Completions, Total: res.Total, PageCount: res.Pages}, nil
	}
}

func (c *Client) SetOAK(ctx context.Context, user DiscordUser, oak string) error {
	return c.put(ctx, ENDPOINT_USERS+"/"+url.PathEscape(user.ID), userPayload{User: user, OAK: oak})
}

// Marks the submission rules as read so the rules popup is not shown again.
func (c *Client) ReadRules(ctx context.Context, user DiscordUser) error {
	return c.put(ctx, ENDPOINT_READ_RULES, userPayload{User: user})
}

// The URL of a banner image with the user's medal counts drawn over it.
func (c *Client) BannerMedalsURL(bannerURL string, medals Medals) string {
	query := url.Values{
		"wins":         {strconv.Itoa(medals.Wins)},
		"black_border": {strconv.Itoa(medals.BlackBorder)},
		"no_geraldo":   {strconv.Itoa(medals.NoGeraldo)},
		"lccs":         {strconv.Itoa(medals.LCCs)},
	}

	return c.url(ENDPOINT_MEDAL_IMG+"/"+url.PathEscape(path.Base(bannerURL)), query)
}
