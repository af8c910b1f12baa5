package daemon

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/helpers"
	"github.com/temoto/wifinfo/internal/state"
	"github.com/temoto/wifinfo/log2"
)

func TestMetricsServer(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	config, err := state.ReadConfig(log, state.NewMockFullReader(map[string]string{"main": `sink { json { host = "hub" } }`}), "main")
	require.NoError(t, err)
	g := state.NewGlobal(log, "test")
	g.Reader = frame.NewStatic(frame.Field{Name: "PAPP", Value: "00750"})
	require.NoError(t, g.Init(context.Background(), config))
	g.Web.HTTP.Transport = &helpers.MockHTTP{}
	g.Cycle(context.Background())

	srv := newMetricsServer(g, ":0")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `wifinfo_dispatch_total{code="200",result="success",sink="json"} 1`), body)
	assert.Contains(t, body, "wifinfo_log_errors_total 0")
}
