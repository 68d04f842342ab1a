// package testing contains shared testing utilities
package testing

import (
	"errors"
	"net/http"
	"os"
	"testing"
	"time"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Receive waits up to timeout for one value from ch. It fails the test on timeout or if ch
// is closed.
func Receive[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(timeout):
		var zero T
		t.Fatalf("timed out after %s waiting for a value", timeout)
		return zero
	}
}

// ReceiveUntil collects values from ch up to and including the first one for which done
// returns true.
func ReceiveUntil[T any](t *testing.T, ch <-chan T, timeout time.Duration, done func(T) bool) []T {
	t.Helper()
	var out []T
	deadline := time.After(timeout)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d values", len(out))
			}
			out = append(out, v)
			if done(v) {
				return out
			}
		case <-deadline:
			t.Fatalf("timed out after %s; received %d values: %v", timeout, len(out), out)
			return out
		}
	}
}

// AssertQuiet fails if ch yields a value within wait.
func AssertQuiet[T any](t *testing.T, ch <-chan T, wait time.Duration) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Errorf("expected no value, got %v", v)
		}
	case <-time.After(wait):
	}
}
