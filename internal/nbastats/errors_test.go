package nbastats

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransientClassification(t *testing.T) {
	cases := []struct {
		name string
		err  *APIError
		want bool
	}{
		{"timeout", &APIError{Endpoint: "x", Timeout: true}, true},
		{"throttled", &APIError{Endpoint: "x", StatusCode: 429}, true},
		{"server error", &APIError{Endpoint: "x", StatusCode: 503}, true},
		{"bad request", &APIError{Endpoint: "x", StatusCode: 400}, false},
		{"not found", &APIError{Endpoint: "x", StatusCode: 404}, false},
		{"decode failure", &APIError{Endpoint: "x", Message: "malformed payload"}, false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Fatalf("%s: IsTransient = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsTransientUnclassified(t *testing.T) {
	if IsTransient(errors.New("mystery")) {
		t.Fatalf("unclassifiable errors must not be retried")
	}
	if IsTransient(nil) {
		t.Fatalf("nil is not transient")
	}
}

func TestIsTransientWrapped(t *testing.T) {
	err := fmt.Errorf("extract games: %w", &APIError{Endpoint: "leaguegamefinder", Timeout: true})
	if !IsTransient(err) {
		t.Fatalf("expected wrapped timeout to classify transient")
	}
}

func TestWrapCallError(t *testing.T) {
	apiErr := wrapCallError("boxscoretraditionalv2", timeoutErr{})
	if !apiErr.Timeout {
		t.Fatalf("expected net timeout to mark Timeout")
	}

	apiErr = wrapCallError("boxscoretraditionalv2", context.DeadlineExceeded)
	if !apiErr.Timeout {
		t.Fatalf("expected deadline exceeded to mark Timeout")
	}

	apiErr = wrapCallError("boxscoretraditionalv2", errors.New("connection refused"))
	if apiErr.Timeout {
		t.Fatalf("expected plain dial error to stay non-timeout")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Endpoint: "shotchartdetail", StatusCode: 400, Message: "bad GameID"}
	want := "nbastats shotchartdetail: bad GameID (status=400)"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
