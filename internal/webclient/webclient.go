// Package webclient issues one HTTP request per telemetry sink call.
// Contract:
// - POST application/json when body is present, GET otherwise
// - success only for obtained status 200..299
// - transport errors and other statuses are reported false, never returned or panicked
// - no retry, timeout is http.Client property
package webclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/temoto/atomic_clock"
	"github.com/temoto/wifinfo/log2"
)

const DefaultTimeout = 10 * time.Second

const (
	DefaultPort = 80
	TLSPort     = 443
)

// response body is logged for diagnostics only
const maxLogBody = 512

type Request struct {
	Sink string // metrics label, e.g. "json" "jeedom"
	Host string
	Port int
	Path string // may contain query
	Body string // empty means GET
}

func (r Request) Method() string {
	if r.Body != "" {
		return http.MethodPost
	}
	return http.MethodGet
}

// URL selects https on port 443.
func (r Request) URL() string {
	return r.base() + r.path()
}

func (r Request) base() string {
	port := r.Port
	if port == 0 {
		port = DefaultPort
	}
	scheme := "http"
	if port == TLSPort {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, r.Host, port)
}

func (r Request) path() string {
	path := r.Path
	if path == "" {
		path = "/"
	} else if path[0] != '/' {
		path = "/" + path
	}
	return path
}

// newRequest keeps path verbatim when it is not valid URL escaping,
// e.g. template placeholder `%PAPP%` left unsubstituted.
func (r Request) newRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method(), r.URL(), body)
	if err == nil {
		return req, nil
	}
	req, err2 := http.NewRequestWithContext(ctx, r.Method(), r.base()+"/", body)
	if err2 != nil {
		return nil, err
	}
	path, query, hasQuery := strings.Cut(r.path(), "?")
	req.URL.Opaque = path
	req.URL.RawQuery = query
	req.URL.ForceQuery = hasQuery && query == ""
	return req, nil
}

type Client struct {
	HTTP *http.Client
	Log  *log2.Log
	Stat *Stat

	LastAttempt atomic_clock.Clock
	LastSuccess atomic_clock.Clock
}

func NewClient(log *log2.Log, timeout time.Duration, stat *Stat) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: newHTTPClient(timeout),
		Log:  log,
		Stat: stat,
	}
}

// Redirects are not followed, 3xx status is the result.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: noRedirect,
	}
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// Success reports whether status code means delivered.
// Zero status is "no response".
func Success(status int) bool {
	return status >= 200 && status < 300
}

func (c *Client) Send(ctx context.Context, r Request) bool {
	start := time.Now()
	c.LastAttempt.SetNow()
	url := r.URL()

	status, respBody, err := c.do(ctx, r)
	elapsed := time.Since(start)
	ok := err == nil && Success(status)
	c.Stat.observe(r.Sink, status, err, elapsed)

	switch {
	case err != nil:
		c.Log.Errorf("%s %s => failed in %d ms err=%v last success %s", r.Method(), url, elapsed.Milliseconds(), err, c.lastSuccess())
	case !ok:
		c.Log.Errorf("%s %s => %d in %d ms last success %s", r.Method(), url, status, elapsed.Milliseconds(), c.lastSuccess())
	default:
		c.LastSuccess.SetNow()
		c.Log.Debugf("%s %s => %d in %d ms body=%s", r.Method(), url, status, elapsed.Milliseconds(), respBody)
	}
	return ok
}

// SinceSuccess is false until first delivered request.
func (c *Client) SinceSuccess() (time.Duration, bool) {
	if c.LastSuccess.IsZero() {
		return 0, false
	}
	return atomic_clock.Since(&c.LastSuccess), true
}

func (c *Client) lastSuccess() string {
	d, ok := c.SinceSuccess()
	if !ok {
		return "never"
	}
	return d.Truncate(time.Millisecond).String() + " ago"
}

func (c *Client) do(ctx context.Context, r Request) (int, string, error) {
	var body io.Reader
	if r.Body != "" {
		body = strings.NewReader(r.Body)
	}
	req, err := r.newRequest(ctx, body)
	if err != nil {
		return 0, "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := c.HTTP
	if client == nil {
		client = newHTTPClient(DefaultTimeout)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxLogBody))
	// drain so connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, string(b), nil
}
