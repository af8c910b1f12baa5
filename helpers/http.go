package helpers

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"sync"
)

// MockHTTP is http.RoundTripper for tests.
// Requests are recorded with body read into RequestBodies.
type MockHTTP struct {
	Fun    func(*http.Request) (*http.Response, error)
	Header []byte
	Body   []byte
	Err    error

	mu            sync.Mutex
	Requests      []*http.Request
	RequestBodies []string
}

func (m *MockHTTP) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.RequestBodies = append(m.RequestBodies, string(body))
	m.mu.Unlock()

	if m.Fun != nil {
		return m.Fun(req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	header := m.Header
	if header == nil {
		header = []byte("HTTP/1.0 200 OK\r\n\r\n")
	}
	rb := make([]byte, 0, len(header)+len(m.Body))
	rb = append(rb, header...)
	rb = append(rb, m.Body...)
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(rb)), req)
}

func (m *MockHTTP) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

func (m *MockHTTP) Last() (*http.Request, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil, ""
	}
	i := len(m.Requests) - 1
	return m.Requests[i], m.RequestBodies[i]
}
