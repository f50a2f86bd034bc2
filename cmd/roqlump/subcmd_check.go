package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gitlab.com/edge-engine/roqplay/internal/config"
	"gitlab.com/edge-engine/roqplay/internal/wad"
	"gitlab.com/edge-engine/roqplay/lumpio"
	"golang.org/x/sync/errgroup"
)

const defaultCheckJobs = 4

type checkSubcommand struct {
	stdout io.Writer
	size   int
	jobs   int
}

func newCheckSubcommand(stdout io.Writer) *checkSubcommand {
	return &checkSubcommand{stdout: stdout}
}

func (cmd *checkSubcommand) FlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.IntVar(&cmd.size, "size", 0, "element size in bytes (defaults to element_size from the config)")
	fs.IntVar(&cmd.jobs, "jobs", defaultCheckJobs, "number of lumps checked concurrently")
	return fs
}

// lumpCheck is the outcome of reading one lump to its end.
type lumpCheck struct {
	lump     wad.Lump
	elements int
	bytes    int
	err      error
}

func (lc lumpCheck) ok() bool {
	return lc.err == nil && int64(lc.bytes) == lc.lump.Size
}

func (cmd *checkSubcommand) Exec(flags *flag.FlagSet, conf config.Cfg) error {
	if flags.NArg() != 1 {
		return usageError{Command: flags.Name(), Want: "[-size N] [-jobs N] ARCHIVE"}
	}

	size := cmd.size
	if size == 0 {
		size = conf.ElementSize
	}
	if size <= 0 || cmd.jobs <= 0 {
		return usageError{Command: flags.Name(), Want: "-size and -jobs must be positive"}
	}

	archive, err := wad.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	results, err := checkArchive(context.Background(), archive, size, cmd.jobs)
	if err != nil {
		return err
	}

	var failed int
	for _, res := range results {
		if res.ok() {
			continue
		}
		failed++

		fields := logrus.Fields{"lump": res.lump.Name, "want": res.lump.Size, "got": res.bytes}
		if res.err != nil {
			logger.WithFields(fields).WithError(res.err).Error("lump check failed")
		} else {
			logger.WithFields(fields).Error("lump size mismatch")
		}
		fmt.Fprintf(cmd.stdout, "FAIL %-8s want %d bytes, got %d\n", res.lump.Name, res.lump.Size, res.bytes)
	}

	fmt.Fprintf(cmd.stdout, "%d lumps checked, %d failed\n", len(results), failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d lumps failed", failed, len(results))
	}
	return nil
}

// checkArchive reads every lump of a through its own cursor, size bytes at
// a time, using jobs workers. Results are in directory order.
func checkArchive(ctx context.Context, a *wad.Archive, size, jobs int) ([]lumpCheck, error) {
	lumps := a.Lumps()
	results := make([]lumpCheck, len(lumps))

	g, ctx := errgroup.WithContext(ctx)

	indexes := make(chan int)
	g.Go(func() error {
		defer close(indexes)
		for i := range lumps {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for j := 0; j < jobs; j++ {
		g.Go(func() error {
			for i := range indexes {
				results[i] = checkLump(a, lumps[i], size)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func checkLump(a *wad.Archive, l wad.Lump, size int) lumpCheck {
	res := lumpCheck{lump: l}

	data, err := a.ReadLump(l)
	if err != nil {
		res.err = err
		return res
	}

	c := lumpio.NewCursor(data)
	defer c.Close()

	dst := make([]byte, size)
	for {
		before := c.Pos()
		n, err := lumpio.Read(dst, size, 1, c)
		if err != nil {
			res.err = err
			return res
		}

		copied := c.Pos() - before
		if copied == 0 {
			return res
		}

		res.elements += n
		res.bytes += copied
	}
}
