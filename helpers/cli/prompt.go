// Package cli runs line oriented command loop:
// go-prompt on terminal, plain stdin lines otherwise.
package cli

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
)

type Executor func(line string)

func MainLoop(tag string, exec Executor, complete prompt.Completer) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for range signalCh {
			os.Exit(1)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(prompt.Executor(exec), complete,
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
		return nil
	}
	return errors.Annotate(ExecReader(os.Stdin, exec), tag)
}

// ExecReader feeds trimmed non-empty lines of r to exec until EOF.
func ExecReader(r io.Reader, exec Executor) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exec(line)
	}
	return scanner.Err()
}

// Suggester filters fixed word list by word before cursor.
func Suggester(words ...string) prompt.Completer {
	suggests := make([]prompt.Suggest, 0, len(words))
	for _, w := range words {
		suggests = append(suggests, prompt.Suggest{Text: w})
	}
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}
