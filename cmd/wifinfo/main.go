package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/wifinfo/cmd/wifinfo/console"
	"github.com/temoto/wifinfo/cmd/wifinfo/daemon"
	"github.com/temoto/wifinfo/cmd/wifinfo/send"
	"github.com/temoto/wifinfo/cmd/wifinfo/subcmd"
	"github.com/temoto/wifinfo/internal/state"
	"github.com/temoto/wifinfo/log2"
)

var log = log2.NewStderr(log2.LDebug)

var BuildVersion string = "unknown" // set by ldflags -X

var modules = []subcmd.Mod{
	daemon.Mod,
	send.Mod,
	console.Mod,
}

func main() {
	flagset := flag.NewFlagSet("wifinfo", flag.ContinueOnError)
	configPath := flagset.String("config", "wifinfo.hcl", "")
	flagset.Usage = func() {
		fmt.Fprintf(flagset.Output(), "Usage: wifinfo [option] command\n\nOptions:\n")
		flagset.PrintDefaults()
		fmt.Fprintf(flagset.Output(), "\nCommands:\n")
		for _, m := range modules {
			fmt.Fprintf(flagset.Output(), "  %-8s %s\n", m.Name, m.Usage)
		}
	}
	if err := flagset.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatal(err)
	}

	mod, err := subcmd.Parse(flagset.Arg(0), modules)
	if err != nil {
		flagset.Usage()
		log.Fatal(err)
	}

	if subcmd.SdNotify(log, "start") {
		// under systemd assume journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.SetLevel(log2.LInfo)

	config := state.MustReadConfig(log, state.NewOsFullReader(), *configPath)
	g := state.NewGlobal(log, BuildVersion)
	ctx := g.Context(context.Background())

	if err := mod.Main(ctx, config); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}
