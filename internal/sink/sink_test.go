package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/wifinfo/frame"
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
	"github.com/temoto/wifinfo/internal/webclient"
	"github.com/temoto/wifinfo/log2"
)

type fakeDispatcher struct {
	result bool
	reqs   []webclient.Request
}

func (f *fakeDispatcher) Send(_ context.Context, r webclient.Request) bool {
	f.reqs = append(f.reqs, r)
	return f.result
}

type fakePublisher struct {
	result bool
	msgs   []string
}

func (f *fakePublisher) Publish(b []byte) bool {
	f.msgs = append(f.msgs, string(b))
	return f.result
}

type tenv struct {
	env    *Env
	reader *frame.Static
	disp   *fakeDispatcher
	pub    *fakePublisher
}

func newTenv(t testing.TB, fields ...frame.Field) *tenv {
	reader := frame.NewStatic(fields...)
	return &tenv{
		env:    &Env{Log: log2.NewTest(t, log2.LDebug), Reinit: reader.Reinit},
		reader: reader,
		disp:   &fakeDispatcher{result: true},
		pub:    &fakePublisher{result: true},
	}
}

func fld(name, value string) frame.Field { return frame.Field{Name: name, Value: value} }

var meterFields = []frame.Field{
	fld("ADCO", "012345"),
	fld("OPTARIF", "BASE"),
	fld("HCHP", "123"),
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("end-to-end", func(t *testing.T) {
		e := newTenv(t, meterFields...)
		s := &JSON{Env: e.env, Config: sink_config.JSON{Host: "hub", Port: 8080, Path: "/tele"}, Client: e.disp}
		require.True(t, s.Send(context.Background(), e.reader.Snapshot()))
		require.Len(t, e.disp.reqs, 1)
		assert.Equal(t, webclient.Request{
			Sink: NameJSON, Host: "hub", Port: 8080, Path: "/tele",
			Body: `{"ADCO":"012345","OPTARIF":"1","HCHP":"123"}`,
		}, e.disp.reqs[0])
		assert.Equal(t, 0, e.reader.ReinitCount())
	})
	t.Run("no-host", func(t *testing.T) {
		e := newTenv(t, meterFields...)
		s := &JSON{Env: e.env, Client: e.disp}
		assert.False(t, s.Send(context.Background(), e.reader.Snapshot()))
		assert.Len(t, e.disp.reqs, 0)
	})
	t.Run("empty-snapshot", func(t *testing.T) {
		e := newTenv(t, frame.Field{Name: "X", Free: true})
		s := &JSON{Env: e.env, Config: sink_config.JSON{Host: "hub"}, Client: e.disp}
		assert.False(t, s.Send(context.Background(), e.reader.Snapshot()))
		assert.Len(t, e.disp.reqs, 0)
	})
	t.Run("invalid-name-reinit", func(t *testing.T) {
		e := newTenv(t, fld("ADCO", "1"), fld("BAD NAME", "2"), fld("PAPP", "3"), fld("ALSO BAD", "4"))
		e.disp.result = false
		s := &JSON{Env: e.env, Config: sink_config.JSON{Host: "hub"}, Client: e.disp}
		assert.False(t, s.Send(context.Background(), e.reader.Snapshot()))
		require.Len(t, e.disp.reqs, 1)
		assert.Equal(t, `{"ADCO":"1","PAPP":"3"}`, e.disp.reqs[0].Body)
		assert.Equal(t, 1, e.reader.ReinitCount())
	})
}

func TestMQTT(t *testing.T) {
	t.Parallel()

	e := newTenv(t, meterFields...)
	s := &MQTT{Env: e.env, Publisher: e.pub}
	assert.True(t, s.Send(context.Background(), e.reader.Snapshot()))
	assert.Equal(t, []string{`{"ADCO":"012345","OPTARIF":"1","HCHP":"123"}`}, e.pub.msgs)
	assert.False(t, s.Send(context.Background(), nil))
	assert.Len(t, e.pub.msgs, 1)
	assert.False(t, (&MQTT{Env: e.env}).Send(context.Background(), e.reader.Snapshot()))
}

func TestJeedom(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		config     sink_config.Jeedom
		fields     []frame.Field
		expectOk   bool
		expectReq  *webclient.Request
		expectInit int
	}{
		{"no-host", sink_config.Jeedom{ADCO: "012345"}, meterFields, false, nil, 0},
		{"no-adco", sink_config.Jeedom{Host: "jeedom"}, meterFields, false, nil, 0},
		{"anchor-only", sink_config.Jeedom{Host: "jeedom", ADCO: "012345"}, meterFields[:1], false, nil, 0},
		{"apikey",
			sink_config.Jeedom{Host: "jeedom", Port: 443, URL: "/plugins/teleinfo/core/php/jeeTeleinfo.php", APIKey: "k3y", ADCO: "012345"},
			meterFields, true,
			&webclient.Request{
				Sink: NameJeedom, Host: "jeedom", Port: 443,
				Path: "/plugins/teleinfo/core/php/jeeTeleinfo.php?apikey=k3y",
				Body: `{"device":{"012345":{"device":"012345","OPTARIF":"1","HCHP":"123"}}}`,
			}, 0},
		{"default-url-invalid-field",
			sink_config.Jeedom{Host: "jeedom", ADCO: "9"},
			[]frame.Field{fld("ADCO", "9"), fld("P APP", "1"), fld("PTEC", "HCJW")}, true,
			&webclient.Request{
				Sink: NameJeedom, Host: "jeedom", Path: "/?",
				Body: `{"device":{"9":{"device":"9","PTEC":"7"}}}`,
			}, 1},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			e := newTenv(t, c.fields...)
			s := &Jeedom{Env: e.env, Config: c.config, Client: e.disp}
			assert.Equal(t, c.expectOk, s.Send(context.Background(), e.reader.Snapshot()))
			if c.expectReq == nil {
				assert.Len(t, e.disp.reqs, 0)
			} else {
				require.Len(t, e.disp.reqs, 1)
				assert.Equal(t, *c.expectReq, e.disp.reqs[0])
			}
			assert.Equal(t, c.expectInit, e.reader.ReinitCount())
		})
	}
}

func TestHTTPRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		path   string
		fields []frame.Field
		expect string
	}{
		{"domoticz",
			"/json.htm?type=command&param=udevice&idx=12&svalue=%HCHP%;%HCHC%;0;0;%PAPP%;0",
			[]frame.Field{fld("HCHP", "100"), fld("HCHC", "200"), fld("PAPP", "00750"), fld("_VIRT", "x")},
			"/json.htm?type=command&param=udevice&idx=12&svalue=100;200;0;0;00750;0"},
		{"no-query", "/in", meterFields, "/in?"},
		{"default", "", meterFields, "/?"},
		{"raw-codes", "/x?o=%OPTARIF%&m=%PAPP%", meterFields, "/x?o=BASE&m=%PAPP%"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			e := newTenv(t, c.fields...)
			s := &HTTPRequest{Env: e.env, Config: sink_config.HTTPRequest{Host: "hub", Path: c.path}, Client: e.disp}
			require.True(t, s.Send(context.Background(), e.reader.Snapshot()))
			require.Len(t, e.disp.reqs, 1)
			assert.Equal(t, c.expect, e.disp.reqs[0].Path)
			assert.Equal(t, "", e.disp.reqs[0].Body)
		})
	}

	e := newTenv(t)
	s := &HTTPRequest{Env: e.env, Config: sink_config.HTTPRequest{Host: "hub"}, Client: e.disp}
	assert.False(t, s.Send(context.Background(), e.reader.Snapshot()))
	s.Config.Host = ""
	assert.False(t, s.Send(context.Background(), frame.Snapshot{fld("PAPP", "1")}))
	assert.Len(t, e.disp.reqs, 0)
}

func TestBuildRun(t *testing.T) {
	t.Parallel()

	e := newTenv(t, meterFields...)
	config := sink_config.Config{
		JSON:        sink_config.JSON{Host: "hub"},
		MQTT:        sink_config.MQTT{Broker: "tcp://broker:1883"},
		Jeedom:      sink_config.Jeedom{Host: "jeedom"}, // no adco, disabled
		HTTPRequest: sink_config.HTTPRequest{Host: "domoticz", Path: "/x?p=%HCHP%"},
	}
	ss := Build(e.env, config, e.disp, e.pub)
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{NameJSON, NameMQTT, NameHTTPRequest}, names)

	e.pub.result = false
	r := Run(context.Background(), e.env.Log, ss, e.reader.Snapshot())
	assert.Equal(t, []string{NameJSON, NameHTTPRequest}, r.Sent)
	assert.Equal(t, []string{NameMQTT}, r.Failed)
	require.Len(t, e.disp.reqs, 2)
	assert.Equal(t, "/x?p=123", e.disp.reqs[1].Path)

	assert.Len(t, Build(e.env, config, e.disp, nil), 2)
}
