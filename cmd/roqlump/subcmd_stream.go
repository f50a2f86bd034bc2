package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gitlab.com/edge-engine/roqplay/internal/config"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"gitlab.com/edge-engine/roqplay/internal/player"
	"gitlab.com/edge-engine/roqplay/internal/wad"
)

const defaultStreamChunk = 1024

type streamSubcommand struct {
	stdout io.Writer
	chunk  int

	newTicker func(conf config.Cfg) helper.Ticker
}

func newStreamSubcommand(stdout io.Writer) *streamSubcommand {
	return &streamSubcommand{
		stdout: stdout,
		newTicker: func(conf config.Cfg) helper.Ticker {
			return helper.NewTimerTicker(conf.TickInterval.Duration())
		},
	}
}

func (cmd *streamSubcommand) FlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("stream", flag.ContinueOnError)
	fs.IntVar(&cmd.chunk, "chunk", defaultStreamChunk, "elements pulled per tick")
	return fs
}

func (cmd *streamSubcommand) Exec(flags *flag.FlagSet, conf config.Cfg) error {
	if flags.NArg() < 1 {
		return usageError{Command: flags.Name(), Want: "[-chunk N] LUMP [ARCHIVE...]"}
	}
	if cmd.chunk <= 0 || conf.ElementSize <= 0 {
		return usageError{Command: flags.Name(), Want: "-chunk and element_size must be positive"}
	}

	name := flags.Arg(0)

	paths := flags.Args()[1:]
	if len(paths) == 0 {
		paths = conf.Archives
	}
	if len(paths) == 0 {
		return errors.New("no archives given and none configured")
	}

	stack, err := wad.OpenStack(paths)
	if err != nil {
		return err
	}
	defer stack.Close()

	cache, err := wad.NewCache(stack, conf.LumpCacheSize)
	if err != nil {
		return err
	}

	sessionLogger := logger.WithField("session_id", uuid.New().String())

	f, err := player.NewFeeder(player.NewOpener(cache, player.WithLogger(sessionLogger)), name, conf.ElementSize, cmd.chunk, cmd.stdout)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-f.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := player.Drive(ctx, f, cmd.newTicker(conf)); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stream %s: %w", name, err)
	}
	if err := f.Err(); err != nil {
		return fmt.Errorf("stream %s: %w", name, err)
	}

	ticks, fed := f.Stats()
	sessionLogger.WithFields(logrus.Fields{
		"lump":     name,
		"archives": len(paths),
		"ticks":    ticks,
		"bytes":    fed,
	}).Info("stream finished")

	return nil
}
