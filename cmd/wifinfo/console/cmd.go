// Package console is interactive snapshot editor.
// Fields typed by user replace frame file, sinks are called on demand.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/wifinfo/cmd/wifinfo/subcmd"
	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/helpers/cli"
	"github.com/temoto/wifinfo/internal/encode"
	"github.com/temoto/wifinfo/internal/payload"
	"github.com/temoto/wifinfo/internal/sink"
	"github.com/temoto/wifinfo/internal/state"
	"github.com/temoto/wifinfo/log2"
)

const modName = "cli"

const usage = `syntax: one command per line
- NAME VALUE  set field, e.g. PAPP 00750
- NAME        add placeholder field
- show        print payloads
- send        run all sinks with current fields
- clear       remove all fields
- help        this text
`

var Mod = subcmd.Mod{Name: modName, Usage: "type fields, show payloads, send", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	reader := frame.NewStatic()
	g.Reader = reader
	g.MustInit(ctx, config)
	defer g.Close()

	return cli.MainLoop("wifinfo", newExecutor(ctx, reader, os.Stdout), cli.Suggester(payload.PlaceholderNames()...))
}

func newExecutor(ctx context.Context, reader *frame.Static, w io.Writer) cli.Executor {
	g := state.GetGlobal(ctx)
	log := log2.ContextValueLogger(ctx)

	return func(line string) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return
		}
		switch fields[0] {
		case "help":
			fmt.Fprint(w, usage)
		case "show":
			show(w, reader.Snapshot(), g.Config)
		case "send":
			r := g.Cycle(ctx)
			fmt.Fprintf(w, "sent=%v failed=%v\n", r.Sent, r.Failed)
		case "clear":
			reader.Clear()
		default:
			if len(fields) > 2 {
				log.Error(errors.NotValidf("line=%q expected NAME VALUE", line))
				return
			}
			if len(fields) == 1 {
				reader.Add(frame.Field{Name: fields[0], Free: true})
				return
			}
			reader.Set(fields[0], fields[1])
		}
	}
}

func show(w io.Writer, snap frame.Snapshot, config *state.Config) {
	fmt.Fprintf(w, "fields: %s\n", snap.String())
	flat := payload.FlatJSON(snap, encode.ValidName)
	fmt.Fprintf(w, "json: %s\n", flat.Body)
	if len(flat.Invalid) != 0 {
		fmt.Fprintf(w, "invalid names: %q\n", flat.Invalid)
	}
	if dev, ok := payload.DeviceJSON(snap, config.Sink.Jeedom.ADCO, encode.ValidName); ok {
		fmt.Fprintf(w, "jeedom: %s\n", dev.Body)
	}
	if config.Sink.HTTPRequest.Enabled() {
		s := sink.HTTPRequest{Config: config.Sink.HTTPRequest}
		fmt.Fprintf(w, "http_request: %s\n", payload.Substitute(s.Template(), snap))
	}
}
