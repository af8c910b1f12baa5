package sink

import (
	"context"
	"strings"

	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/internal/payload"
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
	"github.com/temoto/wifinfo/internal/webclient"
)

// HTTPRequest sends GET with %NAME% placeholders of Path replaced by raw values.
type HTTPRequest struct {
	Env    *Env
	Config sink_config.HTTPRequest
	Client Dispatcher
}

func (s *HTTPRequest) Name() string { return NameHTTPRequest }

// Template is configured path, `?` appended when it has no query yet.
func (s *HTTPRequest) Template() string {
	path := s.Config.Path
	if path == "" {
		path = "/"
	}
	if !strings.Contains(path, "?") {
		path += "?"
	}
	return path
}

func (s *HTTPRequest) Send(ctx context.Context, snap frame.Snapshot) bool {
	if !s.Config.Enabled() {
		s.Env.Log.Debugf("http_request host=empty, skip")
		return false
	}
	if snap.Used() == 0 {
		return false
	}
	return s.Client.Send(ctx, webclient.Request{
		Sink: NameHTTPRequest,
		Host: s.Config.Host,
		Port: s.Config.Port,
		Path: payload.Substitute(s.Template(), snap),
	})
}
