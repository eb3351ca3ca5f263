package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is returned when a provider answers with a status outside of
// the 2xx/3xx range.
type RequestError struct {
	Code     int
	Body     string
	Provider string
	// Message replaces the default description when set.
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error while making a request to %s. Code: %d\n\nThe response was: %s", e.Provider, e.Code, e.Body)
}

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts API errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidURL) {
		return &UserError{
			Message: "Invalid build URL",
			Hint:    "Supported formats:\n  - https://github.com/owner/repo/actions/runs/456\n  - https://circleci.com/gh/owner/repo/123\n  - https://buildkite.com/org/pipeline/builds/123",
			Err:     err,
		}
	}

	if errors.Is(err, ErrUnsupportedProvider) {
		return &UserError{
			Message: "Aw, snap! This CI is not supported by CI Runner.",
			Hint:    "Please open an issue on GitHub to let us know you are interested.",
			Err:     err,
		}
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return err
	}

	switch reqErr.Code {
	case http.StatusUnauthorized:
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that your API token is valid and has the correct permissions.\n  - GitHub: cirunner github-token TOKEN (or set GITHUB_TOKEN)\n  - CircleCI: cirunner circle-ci-token TOKEN (or set CIRCLE_CI_TOKEN)\n  - Buildkite: cirunner buildkite-token TOKEN ORGANIZATION",
			Err:     err,
		}
	case http.StatusNotFound:
		return &UserError{
			Message: "Resource not found",
			Hint:    "Check that the repository and commit are correct and that your token has access to the repository.",
			Err:     err,
		}
	}

	return err
}
