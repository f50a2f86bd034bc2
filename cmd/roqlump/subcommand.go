package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"gitlab.com/edge-engine/roqplay/internal/config"
	"gitlab.com/edge-engine/roqplay/internal/sentry"
)

type subcmd interface {
	FlagSet() *flag.FlagSet
	Exec(flags *flag.FlagSet, conf config.Cfg) error
}

func newSubcommands(stdout io.Writer) map[string]subcmd {
	return map[string]subcmd{
		"list":   newListSubcommand(stdout),
		"dump":   newDumpSubcommand(stdout),
		"check":  newCheckSubcommand(stdout),
		"stream": newStreamSubcommand(stdout),
	}
}

// usageError marks errors caused by bad invocation rather than by the data.
type usageError struct {
	Command string
	Want    string
}

func (err usageError) Error() string {
	return fmt.Sprintf("usage: %s %s %s", progname, err.Command, err.Want)
}

// subCommand returns an exit code, to be fed into os.Exit.
func subCommand(conf config.Cfg, arg0 string, argRest []string) int {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	go func() {
		<-interrupt
		os.Exit(130) // indicates program was interrupted
	}()

	code := runSubcommand(os.Stdout, conf, arg0, argRest)
	sentry.Flush(2 * time.Second)

	return code
}

func runSubcommand(stdout io.Writer, conf config.Cfg, arg0 string, argRest []string) int {
	cmd, ok := newSubcommands(stdout)[arg0]
	if !ok {
		printfErr("%s: unknown subcommand: %q\n", progname, arg0)
		return 2
	}

	flags := cmd.FlagSet()
	if err := flags.Parse(argRest); err != nil {
		return 2
	}

	start := time.Now()
	if err := cmd.Exec(flags, conf); err != nil {
		printfErr("%s %s: fail: %v\n", progname, arg0, err)

		var uerr usageError
		if errors.As(err, &uerr) {
			return 2
		}

		sentry.ReportError(arg0, start, err)
		return 1
	}

	return 0
}

func printfErr(format string, a ...interface{}) (int, error) {
	return fmt.Fprintf(os.Stderr, format, a...)
}

func humanBytes(n int64) string {
	units := []struct {
		size  int64
		label string
	}{
		{size: 1000000000000, label: "TB"},
		{size: 1000000000, label: "GB"},
		{size: 1000000, label: "MB"},
		{size: 1000, label: "KB"},
	}

	for _, u := range units {
		if n > u.size {
			return fmt.Sprintf("%.2f %s", float32(n)/float32(u.size), u.label)
		}
	}

	return fmt.Sprintf("%d bytes", n)
}
