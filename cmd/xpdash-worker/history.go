package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"xpdash/internal/core"
)

type snapshotLister interface {
	ListSnapshots(ctx context.Context, login string, limit int) ([]core.Snapshot, error)
}

// runHistory prints the stored snapshots of one login, newest first:
//
//	xpdash-worker history -limit 20 jdoe
func runHistory(repo snapshotLister, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum number of snapshots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: xpdash-worker history [-limit n] <login>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snaps, err := repo.ListSnapshots(ctx, fs.Arg(0), *limit)
	if err != nil {
		return err
	}
	return printHistory(os.Stdout, snaps, time.Now())
}

func printHistory(out io.Writer, snaps []core.Snapshot, now time.Time) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(out, "no snapshots")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAKEN\tTOTAL\tSCHOOL\tPROJECTS\tEXERCISES\tAUDIT RATIO")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			humanize.RelTime(s.TakenAt, now, "ago", "from now"),
			core.FormatXP(s.TotalXP, core.CategoryTotal),
			core.FormatXP(s.SchoolXP, core.CategorySchool),
			s.Projects,
			s.Exercises,
			s.AuditRatio())
	}
	return tw.Flush()
}
