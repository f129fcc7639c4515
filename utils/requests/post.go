package requests

import (
	"bytes"
	"context"
	"net/http"

	"github.com/bytedance/sonic"
)

// Marshals body with sonic and sends it with the given method.
// The raw encoded bytes are passed to sign (when non-nil) so callers can attach a signature header.
func (c *Client) SendJSON(ctx context.Context, method, u string, body any, sign func(payload []byte) http.Header) ([]byte, error) {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if sign != nil {
		if h := sign(payload); h != nil {
			header = h
		}
	}
	header.Set("Content-Type", "application/json")

	return c.Send(ctx, method, u, bytes.NewReader(payload), header)
}

// Like SendJSON but decodes the response into T.
func JsonSend[T any](ctx context.Context, c *Client, method, u string, body any, sign func([]byte) http.Header) (T, error) {
	var data T

	res, err := c.SendJSON(ctx, method, u, body, sign)
	if err != nil {
		return data, err
	}

	if len(res) == 0 {
		return data, nil
	}

	return Decode[T](res)
}
