// Package discordtest records the REST calls a discordgo session makes so
// handlers can be tested without Discord.
package discordtest

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// Request is one recorded REST call
type Request struct {
	Method string
	Path   string
	Body   string
}

type reply struct {
	method string
	suffix string
	status int
	body   string
}

// Recorder is an http.RoundTripper that answers every call with 200 "{}"
// unless a reply was registered for it
type Recorder struct {
	mu       sync.Mutex
	requests []Request
	replies  []reply
}

// Reply answers calls whose method matches and whose path ends in suffix
func (r *Recorder) Reply(method, suffix string, status int, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply{method: method, suffix: suffix, status: status, body: body})
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	r.mu.Lock()
	r.requests = append(r.requests, Request{Method: req.Method, Path: req.URL.Path, Body: string(body)})
	status, payload := http.StatusOK, "{}"
	for _, rep := range r.replies {
		if rep.method == req.Method && strings.HasSuffix(req.URL.Path, rep.suffix) {
			status, payload = rep.status, rep.body
			break
		}
	}
	r.mu.Unlock()

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(payload)),
		Request:    req,
	}, nil
}

// Requests returns the calls made so far
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}

// NewSession returns a session whose REST calls go to the recorder
func NewSession(t *testing.T) (*discordgo.Session, *Recorder) {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("discordgo session: %v", err)
	}
	rec := &Recorder{}
	s.Client = &http.Client{Transport: rec}
	return s, rec
}
