package maplist

import (
	"context"
	"strconv"

	"mlbot/utils/pagination"
)

// What a leaderboard ranks players by.
type LeaderboardValue string

const (
	LB_POINTS       LeaderboardValue = "points"
	LB_LCCS         LeaderboardValue = "lccs"
	LB_NO_GERALDO   LeaderboardValue = "no_geraldo"
	LB_BLACK_BORDER LeaderboardValue = "black_border"
)

// Display names offered to users, in the order they are offered.
var LeaderboardValueNames = []struct {
	Name  string
	Value LeaderboardValue
}{
	{"Points", LB_POINTS},
	{"LCCs", LB_LCCS},
	{"No Optimal Hero", LB_NO_GERALDO},
	{"Black Border", LB_BLACK_BORDER},
}

func (c *Client) Leaderboard(ctx context.Context, format int, value LeaderboardValue, page int) (LeaderboardPage, error) {
	query := pageQuery(page)
	query.Set("value", string(value))
	query.Set("format", strconv.Itoa(format))

	return get[LeaderboardPage](ctx, c, ENDPOINT_LEADERBOARD, query, "")
}

// A backend page fetcher over one leaderboard, for use with [pagination.FetchEach].
func (c *Client) LeaderboardPages(format int, value LeaderboardValue) pagination.PageFunc[LeaderboardEntry] {
	return func(ctx context.Context, page int) (pagination.BackendPage[LeaderboardEntry], error) {
		res, err := c.Leaderboard(ctx, format, value, page)
		if err != nil {
			return pagination.BackendPage[LeaderboardEntry]{}, err
		}

		return pagination.BackendPage[LeaderboardEntry]{Items: res.Entries, Total: res.Total, PageCount: res.Pages}, nil
	}
}
