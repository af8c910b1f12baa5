package daemon

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sd "github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/temoto/wifinfo/cmd/wifinfo/subcmd"
	"github.com/temoto/wifinfo/internal/state"
)

var Mod = subcmd.Mod{Name: "daemon", Usage: "send snapshot every frame.interval_sec until SIGINT/SIGTERM", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	g.Log.Debugf("config=%+v", g.Config)

	var metricsServer *http.Server
	if config.Metrics.Listen != "" {
		g.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricsServer = newMetricsServer(g, config.Metrics.Listen)
		go func() {
			g.Log.Infof("metrics listen=%s", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				g.Log.Error(errors.Annotate(err, "metrics serve"))
				g.Stop()
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigCh:
			g.Log.Infof("signal=%v stopping", s)
		case <-g.Alive.StopChan():
		}
		subcmd.SdNotify(g.Log, sd.SdNotifyStopping)
		g.Stop()
	}()

	go g.Loop(ctx)
	subcmd.SdNotify(g.Log, sd.SdNotifyReady)
	g.Log.Infof("daemon running interval=%ds", config.Frame.IntervalSec)

	g.Alive.Wait()
	signal.Stop(sigCh)
	if metricsServer != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutCtx)
	}
	g.Close()
	return nil
}

func newMetricsServer(g *state.Global, listen string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g.Registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
