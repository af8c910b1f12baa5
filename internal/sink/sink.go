// Package sink has the per-cycle entry points: flat JSON POST, MQTT publish,
// Jeedom device JSON POST and templated GET.
// Each Send walks the snapshot once, builds its payload and dispatches it.
// Missing configuration is a silent no-op, reported as false.
package sink

import (
	"context"

	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/internal/encode"
	"github.com/temoto/wifinfo/internal/payload"
	"github.com/temoto/wifinfo/internal/webclient"
	"github.com/temoto/wifinfo/log2"
)

type Sinker interface {
	Name() string
	Send(ctx context.Context, snap frame.Snapshot) bool
}

// Dispatcher is implemented by *webclient.Client.
type Dispatcher interface {
	Send(ctx context.Context, r webclient.Request) bool
}

// Publisher is implemented by *mqtt.Client.
type Publisher interface {
	Publish(payload []byte) bool
}

// Env is shared by sinks of one process.
type Env struct {
	Log      *log2.Log
	Validate encode.Validator
	Reinit   frame.ReinitFunc
}

func (e *Env) reinit(sink string, r payload.Result) {
	if !r.Reinit {
		return
	}
	e.Log.Debugf("%s invalid field names=%q, frame reinit requested", sink, r.Invalid)
	if e.Reinit != nil {
		e.Reinit()
	}
}

// Result of one cycle across all sinks.
type Result struct {
	Sent   []string
	Failed []string
}

// Run calls every sink sequentially with same snapshot.
func Run(ctx context.Context, log *log2.Log, sinks []Sinker, snap frame.Snapshot) Result {
	r := Result{}
	for _, s := range sinks {
		if s.Send(ctx, snap) {
			r.Sent = append(r.Sent, s.Name())
		} else {
			r.Failed = append(r.Failed, s.Name())
		}
	}
	log.Debugf("cycle fields=%d sent=%v failed=%v", snap.Used(), r.Sent, r.Failed)
	return r
}
