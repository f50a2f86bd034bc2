package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gitlab.com/edge-engine/roqplay/internal/config"
	"gitlab.com/edge-engine/roqplay/internal/wad"
)

type listSubcommand struct {
	stdout io.Writer
}

func newListSubcommand(stdout io.Writer) *listSubcommand {
	return &listSubcommand{stdout: stdout}
}

func (cmd *listSubcommand) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("list", flag.ContinueOnError)
}

func (cmd *listSubcommand) Exec(flags *flag.FlagSet, conf config.Cfg) error {
	if flags.NArg() != 1 {
		return usageError{Command: flags.Name(), Want: "ARCHIVE"}
	}

	archive, err := wad.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	lumps := archive.Lumps()

	table := tablewriter.NewWriter(cmd.stdout)
	table.SetHeader([]string{"#", "Lump", "Offset", "Size"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	var total int64
	for i, l := range lumps {
		table.Append([]string{
			strconv.Itoa(i),
			l.Name,
			strconv.FormatInt(l.Offset, 10),
			humanBytes(l.Size),
		})
		total += l.Size
	}

	table.SetFooter([]string{"", archive.Kind(), fmt.Sprintf("%d lumps", len(lumps)), humanBytes(total)})
	table.Render()

	return nil
}
