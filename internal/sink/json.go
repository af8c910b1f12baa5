package sink

import (
	"context"

	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/internal/payload"
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
	"github.com/temoto/wifinfo/internal/webclient"
)

const (
	NameJSON        = "json"
	NameMQTT        = "mqtt"
	NameJeedom      = "jeedom"
	NameHTTPRequest = "http_request"
)

// JSON posts flat JSON object.
type JSON struct {
	Env    *Env
	Config sink_config.JSON
	Client Dispatcher
}

func (s *JSON) Name() string { return NameJSON }

func (s *JSON) Send(ctx context.Context, snap frame.Snapshot) bool {
	if !s.Config.Enabled() {
		s.Env.Log.Debugf("json host=empty, skip")
		return false
	}
	if snap.Used() == 0 {
		return false
	}
	r := payload.FlatJSON(snap, s.Env.Validate)
	s.Env.reinit(NameJSON, r)
	return s.Client.Send(ctx, webclient.Request{
		Sink: NameJSON,
		Host: s.Config.Host,
		Port: s.Config.Port,
		Path: s.Config.Path,
		Body: r.Body,
	})
}

// MQTT publishes flat JSON object.
type MQTT struct {
	Env       *Env
	Publisher Publisher
}

func (s *MQTT) Name() string { return NameMQTT }

func (s *MQTT) Send(ctx context.Context, snap frame.Snapshot) bool {
	if s.Publisher == nil {
		return false
	}
	if snap.Used() == 0 {
		return false
	}
	r := payload.FlatJSON(snap, s.Env.Validate)
	s.Env.reinit(NameMQTT, r)
	return s.Publisher.Publish([]byte(r.Body))
}
