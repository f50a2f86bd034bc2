package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gitlab.com/edge-engine/roqplay/internal/config"
	"gitlab.com/edge-engine/roqplay/internal/player"
	"gitlab.com/edge-engine/roqplay/internal/safe"
	"gitlab.com/edge-engine/roqplay/internal/wad"
	"gitlab.com/edge-engine/roqplay/lumpio"
)

const defaultDumpCount = 4096

type dumpSubcommand struct {
	stdout io.Writer
	size   int
	count  int
	output string
}

func newDumpSubcommand(stdout io.Writer) *dumpSubcommand {
	return &dumpSubcommand{stdout: stdout}
}

func (cmd *dumpSubcommand) FlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.IntVar(&cmd.size, "size", 0, "element size in bytes (defaults to element_size from the config)")
	fs.IntVar(&cmd.count, "count", defaultDumpCount, "elements requested per read")
	fs.StringVar(&cmd.output, "o", "", "write the lump to this file instead of stdout")
	return fs
}

// dumpStats describes how a lump was consumed.
type dumpStats struct {
	Reads      int
	Elements   int
	ShortReads int
	Bytes      int
}

func (cmd *dumpSubcommand) Exec(flags *flag.FlagSet, conf config.Cfg) error {
	if flags.NArg() != 2 {
		return usageError{Command: flags.Name(), Want: "[-size N] [-count N] [-o FILE] ARCHIVE LUMP"}
	}

	size := cmd.size
	if size == 0 {
		size = conf.ElementSize
	}
	if size <= 0 || cmd.count <= 0 {
		return usageError{Command: flags.Name(), Want: "-size and -count must be positive"}
	}

	archive, err := wad.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	cursor, err := player.NewOpener(archive, player.WithLogger(logger)).OpenLump(flags.Arg(1))
	if err != nil {
		return err
	}
	defer cursor.Close()

	var out io.Writer = cmd.stdout
	if cmd.output != "" {
		fw, err := safe.CreateFileWriter(cmd.output)
		if err != nil {
			return err
		}
		defer fw.Close()
		out = fw
	}

	stats, err := dumpCursor(out, cursor, size, cmd.count)
	if err != nil {
		return err
	}

	if fw, ok := out.(*safe.FileWriter); ok {
		if err := fw.Commit(); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"lump":        flags.Arg(1),
		"reads":       stats.Reads,
		"elements":    stats.Elements,
		"short_reads": stats.ShortReads,
		"bytes":       stats.Bytes,
	}).Info("dumped lump")

	return nil
}

// dumpCursor pulls c dry in requests of count elements of size bytes and
// writes everything copied, including a trailing partial element, to w.
func dumpCursor(w io.Writer, c *lumpio.Cursor, size, count int) (dumpStats, error) {
	var stats dumpStats
	buf := make([]byte, size*count)

	for {
		before := c.Pos()
		n, err := lumpio.Read(buf, size, count, c)
		if err != nil {
			return stats, err
		}

		copied := c.Pos() - before
		if copied == 0 {
			return stats, nil
		}

		stats.Reads++
		stats.Elements += n
		stats.Bytes += copied
		if n < count {
			stats.ShortReads++
		}

		if _, err := w.Write(buf[:copied]); err != nil {
			return stats, fmt.Errorf("write: %w", err)
		}
	}
}
