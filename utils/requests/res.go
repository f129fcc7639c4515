package requests

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// A response that came back with a client or server error code.
// The body is kept since some APIs describe what went wrong in it.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// The status code of err if it came from a response, otherwise 0.
func StatusOf(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.Status
	}

	return 0
}

// Reads the response body all at once with [io.ReadAll], returning an [*HTTPError] alongside it
// for client/server error codes. If the caller is not expecting an empty body,
// they should handle it appropriately with a length check as no error will be output in such a case.
func ReadResponseBody(response *http.Response) ([]byte, error) {
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 400 {
		return body, &HTTPError{Status: response.StatusCode, Body: body}
	}

	return body, nil
}
