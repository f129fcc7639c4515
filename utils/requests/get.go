package requests

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/sanity-io/litter"
	log "github.com/sirupsen/logrus"
)

// Sends a GET request to u, serving it from cache when possible.
// Identical requests in flight at the same time share a single round trip.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return nil, err
	}

	key := http.MethodGet + " " + parsed.String()
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			return body, nil
		}
	}

	// The shared round trip outlives any one caller. Each caller still stops waiting when its own
	// context is done, and the client timeout bounds the request itself.
	ch := c.group.DoChan(key, func() (any, error) {
		req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, parsed.String(), nil)
		if err != nil {
			return nil, err
		}

		body, err := c.do(req)
		if err != nil {
			return nil, err
		}

		if c.cache != nil && c.ttl != nil {
			if ttl := c.ttl(parsed); ttl > 0 {
				if err := c.cache.Set(key, body, ttl); err != nil {
					log.WithError(err).WithField("url", parsed.String()).Warn("could not cache response")
				}
			}
		}

		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("GET %s: %w", parsed.String(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.([]byte), nil
	}
}

func JsonGet[T any](ctx context.Context, c *Client, u string) (T, error) {
	var data T

	body, err := c.Get(ctx, u)
	if err != nil {
		return data, err
	}

	return Decode[T](body)
}

// Unmarshals a JSON body with sonic. The raw body is dumped at debug level when it does not fit T.
func Decode[T any](body []byte) (T, error) {
	var data T
	if err := sonic.Unmarshal(body, &data); err != nil {
		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debugf("failed to unmarshal response body into %T:\n%s", data, litter.Sdump(string(body)))
		}

		return data, fmt.Errorf("failed to decode response into %T: %w", data, err)
	}

	return data, nil
}
