package maplist

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"mlbot/utils/requests"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
)

// The API answered 404 for a resource such as a map or a user.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Explain() string {
	return fmt.Sprintf("Couldn't find the %s you're looking for!", e.Resource)
}

// The API answered with any other unexpected status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func (e *StatusError) Explain() string {
	return fmt.Sprintf("`[%d]` Something weird happened!", e.Code)
}

// The API refused a submission, with a message per offending field.
// An empty field name is a general error about the whole request.
type BadRequestError struct {
	Errors map[string]string `json:"errors"`
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %v", e.Errors)
}

func (e *BadRequestError) Explain() string {
	fields := lo.Keys(e.Errors)
	slices.Sort(fields)

	lines := lo.Map(fields, func(field string, _ int) string {
		if field == "" {
			return "- " + e.Errors[field]
		}

		return fmt.Sprintf("- `%s`: %s", field, e.Errors[field])
	})

	return strings.Join(lines, "\n")
}

// Turns a transport-level error into the API's error taxonomy.
// resource names what a 404 refers to. An empty resource means a 404 is just another bad status.
func classify(err error, resource string) error {
	if err == nil {
		return nil
	}

	code := requests.StatusOf(err)
	switch {
	case code == 0:
		return err
	case code == http.StatusNotFound && resource != "":
		return &NotFoundError{Resource: resource}
	case code == http.StatusBadRequest:
		if bad := parseBadRequest(err); bad != nil {
			return bad
		}
	}

	return &StatusError{Code: code}
}

func parseBadRequest(err error) *BadRequestError {
	var herr *requests.HTTPError
	if !errors.As(err, &herr) {
		return nil
	}

	bad := &BadRequestError{}
	if sonic.Unmarshal(herr.Body, bad) != nil || len(bad.Errors) == 0 {
		return nil
	}

	return bad
}
