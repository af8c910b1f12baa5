package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/temoto/alive/v2"
	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/helpers"
	"github.com/temoto/wifinfo/internal/encode"
	"github.com/temoto/wifinfo/internal/mqtt"
	"github.com/temoto/wifinfo/internal/sink"
	"github.com/temoto/wifinfo/internal/webclient"
	"github.com/temoto/wifinfo/log2"
)

const ContextKey = "run/state-global"

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Log          *log2.Log
	Registry     *prometheus.Registry

	Reader frame.Reader
	Web    *webclient.Client
	MQTT   *mqtt.Client
	Sinks  []sink.Sinker

	errorsTotal prometheus.Counter

	_copy_guard sync.Mutex //nolint:unused
}

func NewGlobal(log *log2.Log, buildVersion string) *Global {
	return &Global{
		Alive:        alive.NewAlive(),
		BuildVersion: buildVersion,
		Log:          log,
		Registry:     prometheus.NewRegistry(),
	}
}

func (g *Global) Context(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, log2.ContextKey, g.Log)
	return context.WithValue(ctx, ContextKey, g)
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// Init wires transports and sinks from config.
// Test code may set g.Reader and g.Web before Init.
// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	if cfg.LogDebug {
		g.Log.SetLevel(log2.LDebug)
	}
	g.Log.Infof("build version=%s", g.BuildVersion)

	g.errorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wifinfo_log_errors_total",
		Help: "Errors written to log",
	})
	if err := g.Registry.Register(g.errorsTotal); err != nil {
		return errors.Annotate(err, "metrics register")
	}
	g.Log.SetErrorFunc(func(error) { g.errorsTotal.Inc() })

	timeout := helpers.IntSecondDefault(cfg.NetworkTimeoutSec, webclient.DefaultTimeout)
	if g.Web == nil {
		stat, err := webclient.NewStat(g.Registry)
		if err != nil {
			return errors.Annotate(err, "webclient metrics")
		}
		g.Web = webclient.NewClient(g.Log.Clone(log2.LInfo), timeout, stat)
	}
	if g.Config.LogDebug {
		g.Web.Log.SetLevel(log2.LDebug)
	}

	if g.Reader == nil {
		g.Reader = frame.NewFileReader(cfg.Frame.Path, g.Log)
	}

	var pub sink.Publisher
	if cfg.Sink.MQTT.Enabled() {
		m, err := mqtt.NewClient(g.Log.Clone(log2.LInfo), cfg.Sink.MQTT, timeout)
		if err != nil {
			return errors.Annotate(err, "mqtt init")
		}
		g.MQTT = m
		pub = m
	}

	env := &sink.Env{
		Log:      g.Log,
		Validate: encode.ValidName,
		Reinit:   g.Reader.Reinit,
	}
	g.Sinks = sink.Build(env, cfg.Sink, g.Web, pub)
	if len(g.Sinks) == 0 {
		g.Log.Errorf("config: no sink enabled, nothing will be sent")
	}
	for _, s := range g.Sinks {
		g.Log.Infof("sink enabled name=%s", s.Name())
	}
	return nil
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	if err := g.Init(ctx, cfg); err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

// Cycle reads snapshot once and runs all sinks sequentially.
func (g *Global) Cycle(ctx context.Context) sink.Result {
	snap := g.Reader.Snapshot()
	if snap.Used() == 0 {
		g.Log.Debugf("cycle snapshot empty, nothing to send")
		return sink.Result{}
	}
	return sink.Run(ctx, g.Log, g.Sinks, snap)
}

// Loop runs Cycle every interval until Alive stops.
func (g *Global) Loop(ctx context.Context) {
	if !g.Alive.Add(1) {
		return
	}
	defer g.Alive.Done()
	interval := time.Duration(g.Config.Frame.IntervalSec) * time.Second
	tick := time.NewTicker(interval)
	defer tick.Stop()
	stopCh := g.Alive.StopChan()
	for {
		g.Cycle(ctx)
		select {
		case <-stopCh:
			return
		case <-tick.C:
		}
	}
}

func (g *Global) Stop() {
	g.Alive.Stop()
}

func (g *Global) Close() {
	if g.MQTT != nil {
		g.MQTT.Close()
	}
}

// ErrorsTotal counts log errors since Init.
func (g *Global) ErrorsTotal() prometheus.Counter { return g.errorsTotal }
