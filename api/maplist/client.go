package maplist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mlbot/utils/requests"

	"github.com/sourcegraph/conc/pool"
)

type Endpoint = string

const (
	ENDPOINT_MAPS        Endpoint = "/maps"
	ENDPOINT_LEADERBOARD Endpoint = "/maps/leaderboard"
	ENDPOINT_SUBMIT_MAP  Endpoint = "/maps/submit"
	ENDPOINT_CONFIG      Endpoint = "/config"
	ENDPOINT_FORMATS     Endpoint = "/formats"
	ENDPOINT_USERS       Endpoint = "/users"
	ENDPOINT_READ_RULES  Endpoint = "/read-rules"
	ENDPOINT_MEDAL_IMG   Endpoint = "/img/medal-banner"
)

// Talks to the Maplist REST API. Build one with [New] and pass it to whatever needs it.
type Client struct {
	baseURL string
	req     *requests.Client
	signer  *Signer
}

// signer may be nil, in which case writes are sent unsigned.
func New(baseURL string, req *requests.Client, signer *Signer) *Client {
	return &Client{baseURL: baseURL, req: req, signer: signer}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(endpoint string, query url.Values) string {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// GETs endpoint and decodes it into T. resource names what a 404 means, see [classify].
func get[T any](ctx context.Context, c *Client, endpoint string, query url.Values, resource string) (T, error) {
	res, err := requests.JsonGet[T](ctx, c.req, c.url(endpoint, query))
	if err != nil {
		return res, classify(err, resource)
	}

	return res, nil
}

// Gets a map by code, list position, name or alias.
func (c *Client) Map(ctx context.Context, id string) (Map, error) {
	return get[Map](ctx, c, ENDPOINT_MAPS+"/"+url.PathEscape(strings.ToUpper(id)), nil, "map")
}

func (c *Client) Config(ctx context.Context) (Config, error) {
	vars, err := get[[]ConfigVar](ctx, c, ENDPOINT_CONFIG, nil, "")
	if err != nil {
		return nil, err
	}

	cfg := make(Config, len(vars))
	for _, v := range vars {
		cfg[v.Name] = v.Value
	}

	return cfg, nil
}

func (c *Client) Formats(ctx context.Context) ([]Format, error) {
	return get[[]Format](ctx, c, ENDPOINT_FORMATS, nil, "")
}

// Fetches a map together with the list config needed to show its points.
func (c *Client) MapWithConfig(ctx context.Context, id string) (m Map, cfg Config, err error) {
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) (err error) {
		m, err = c.Map(ctx, id)
		if err != nil {
			err = fmt.Errorf("fetching map %q: %w", id, err)
		}
		return
	})
	p.Go(func(ctx context.Context) (err error) {
		cfg, err = c.Config(ctx)
		if err != nil {
			err = fmt.Errorf("fetching maplist config: %w", err)
		}
		return
	})

	err = p.Wait()
	return
}

func pageQuery(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *Client) send(ctx context.Context, method, endpoint string, body any, resource string) error {
	_, err := c.req.SendJSON(ctx, method, c.url(endpoint, nil), body, c.signer.Header)
	return classify(err, resource)
}

func (c *Client) put(ctx context.Context, endpoint string, body any) error {
	return c.send(ctx, http.MethodPut, endpoint, body, "")
}
