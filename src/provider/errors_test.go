package provider

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRequestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RequestError
		want string
	}{
		{
			name: "default message",
			err:  &RequestError{Code: 422, Body: `{"message":"Unauthorized"}`, Provider: "CircleCI"},
			want: "Error while making a request to CircleCI. Code: 422\n\nThe response was: {\"message\":\"Unauthorized\"}",
		},
		{
			name: "custom message",
			err:  &RequestError{Code: 404, Provider: "CircleCI", Message: "404 while trying to fetch the CircleCI build."},
			want: "404 while trying to fetch the CircleCI build.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError_InvalidURL(t *testing.T) {
	err := fmt.Errorf("%w: https://invalid.com", ErrInvalidURL)
	wrapped := WrapError(err)

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}

	if userErr.Message != "Invalid build URL" {
		t.Errorf("Message = %q, want %q", userErr.Message, "Invalid build URL")
	}

	for _, host := range []string{"github.com", "circleci.com", "buildkite.com"} {
		if !strings.Contains(userErr.Hint, host) {
			t.Errorf("Hint should contain %q, got %q", host, userErr.Hint)
		}
	}

	if !errors.Is(wrapped, ErrInvalidURL) {
		t.Error("errors.Is(wrapped, ErrInvalidURL) = false, want true")
	}
}

func TestWrapError_Unsupported(t *testing.T) {
	wrapped := WrapError(fmt.Errorf("downloading log: %w", ErrUnsupportedProvider))

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}
	if !strings.Contains(userErr.Message, "not supported") {
		t.Errorf("Message = %q, want it to mention 'not supported'", userErr.Message)
	}
	if !errors.Is(wrapped, ErrUnsupportedProvider) {
		t.Error("errors.Is(wrapped, ErrUnsupportedProvider) = false, want true")
	}
}

func TestWrapError_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantHint    string
	}{
		{
			name:        "401",
			err:         &RequestError{Code: 401, Provider: "GitHub"},
			wantMessage: "Authentication failed",
			wantHint:    "GITHUB_TOKEN",
		},
		{
			name:        "wrapped 401",
			err:         fmt.Errorf("fetching check runs: %w", &RequestError{Code: 401, Provider: "GitHub"}),
			wantMessage: "Authentication failed",
			wantHint:    "buildkite-token",
		},
		{
			name:        "404",
			err:         &RequestError{Code: 404, Provider: "GitHub"},
			wantMessage: "Resource not found",
			wantHint:    "repository and commit are correct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)

			userErr, ok := wrapped.(*UserError)
			if !ok {
				t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
			}
			if userErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", userErr.Message, tt.wantMessage)
			}
			if !strings.Contains(userErr.Hint, tt.wantHint) {
				t.Errorf("Hint should contain %q, got %q", tt.wantHint, userErr.Hint)
			}

			var reqErr *RequestError
			if !errors.As(wrapped, &reqErr) {
				t.Error("errors.As(wrapped, *RequestError) = false, want true")
			}
		})
	}
}

func TestWrapError_OtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "500 request error",
			err:  &RequestError{Code: 500, Provider: "Buildkite"},
		},
		{
			name: "generic error",
			err:  errors.New("something went wrong"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)

			if wrapped != tt.err {
				t.Errorf("WrapError() = %v, want original error %v", wrapped, tt.err)
			}
		})
	}
}

func TestWrapError_NilError(t *testing.T) {
	if wrapped := WrapError(nil); wrapped != nil {
		t.Errorf("WrapError(nil) = %v, want nil", wrapped)
	}
}

func TestUserError_Error(t *testing.T) {
	tests := []struct {
		name    string
		userErr *UserError
		want    string
	}{
		{
			name:    "message only",
			userErr: &UserError{Message: "Something went wrong"},
			want:    "Something went wrong",
		},
		{
			name:    "message with hint",
			userErr: &UserError{Message: "Something went wrong", Hint: "Try doing this instead"},
			want:    "Something went wrong\n\nHint: Try doing this instead",
		},
		{
			name: "message with hint and error",
			userErr: &UserError{
				Message: "Something went wrong",
				Hint:    "Try doing this instead",
				Err:     errors.New("original error"),
			},
			want: "Something went wrong\n\nHint: Try doing this instead\n\nDetails: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.userErr.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
