package sink

import (
	"context"

	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/internal/payload"
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
	"github.com/temoto/wifinfo/internal/webclient"
)

// Jeedom posts device JSON to teleinfo plugin endpoint.
type Jeedom struct {
	Env    *Env
	Config sink_config.Jeedom
	Client Dispatcher
}

func (s *Jeedom) Name() string { return NameJeedom }

// Path is `<url or />?apikey=<key>`, `?` is always present.
func (s *Jeedom) Path() string {
	path := s.Config.URL
	if path == "" {
		path = "/"
	}
	path += "?"
	if s.Config.APIKey != "" {
		path += "apikey=" + s.Config.APIKey
	}
	return path
}

func (s *Jeedom) Send(ctx context.Context, snap frame.Snapshot) bool {
	if !s.Config.Enabled() {
		s.Env.Log.Debugf("jeedom host or adco empty, skip")
		return false
	}
	r, ok := payload.DeviceJSON(snap, s.Config.ADCO, s.Env.Validate)
	if !ok {
		return false
	}
	s.Env.reinit(NameJeedom, r)
	return s.Client.Send(ctx, webclient.Request{
		Sink: NameJeedom,
		Host: s.Config.Host,
		Port: s.Config.Port,
		Path: s.Path(),
		Body: r.Body,
	})
}
