package send

import (
	"context"

	"github.com/juju/errors"
	"github.com/temoto/wifinfo/cmd/wifinfo/subcmd"
	"github.com/temoto/wifinfo/internal/state"
)

var Mod = subcmd.Mod{Name: "send", Usage: "send current snapshot once", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	defer g.Close()

	if g.MQTT != nil {
		g.MQTT.WaitConnected(g.Web.HTTP.Timeout)
	}
	return Once(ctx, g)
}

// Once is error only when every enabled sink failed.
func Once(ctx context.Context, g *state.Global) error {
	r := g.Cycle(ctx)
	g.Log.Infof("send sent=%v failed=%v", r.Sent, r.Failed)
	if len(r.Sent) == 0 && len(r.Failed) != 0 {
		return errors.Errorf("send all sinks failed: %v", r.Failed)
	}
	return nil
}
