// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing and records the last request.
type MockRoundTripper struct {
	mu       sync.Mutex
	response *http.Response
	err      error
	last     *http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = req
	return m.response, m.err
}

// LastRequest returns the most recent request seen by the round tripper.
func (m *MockRoundTripper) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// NewResponse builds an [http.Response] with the given status and body.
func NewResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Upstream is an httptest server standing in for the Reddit API.
//
// It replies to every request with Status and Body and records what it received.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     []byte
	requests []*http.Request
	forms    []map[string][]string
}

// NewUpstream starts an [Upstream] that answers with status and body.
// The server is closed when the test ends.
func NewUpstream(t *testing.T, status int, body []byte) *Upstream {
	t.Helper()
	u := &Upstream{status: status, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	u.mu.Lock()
	u.requests = append(u.requests, r.Clone(r.Context()))
	u.forms = append(u.forms, r.PostForm)
	status, body := u.status, u.body
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Requests returns every request received so far.
func (u *Upstream) Requests() []*http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]*http.Request(nil), u.requests...)
}

// LastRequest returns the most recent request, failing the test if there was none.
func (u *Upstream) LastRequest(t *testing.T) *http.Request {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		t.Fatal("upstream received no requests")
	}
	return u.requests[len(u.requests)-1]
}

// LastForm returns the parsed form body of the most recent request.
func (u *Upstream) LastForm(t *testing.T) map[string][]string {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.forms) == 0 {
		t.Fatal("upstream received no requests")
	}
	return u.forms[len(u.forms)-1]
}

// Fixture reads a JSON fixture from this package's testdata directory.
func Fixture(t *testing.T, name string) []byte {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to locate fixture directory")
	}
	path := filepath.Join(filepath.Dir(file), "testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return data
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
