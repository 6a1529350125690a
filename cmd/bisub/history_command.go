package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bisub/internal/history"
)

const historyTimeFormat = "2006-01-02 15:04"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool
	var pruneDays int
	var repair bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded translation runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			runCtx := contextOrBackground(cmd)
			out := cmd.OutOrStdout()

			if repair {
				marked, err := store.MarkInterrupted(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Marked %d running runs as interrupted\n", marked)
				return nil
			}

			if pruneDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -pruneDays)
				removed, err := store.Prune(runCtx, cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d runs started before %s\n", removed, cutoff.Format(historyTimeFormat))
				return nil
			}

			if len(args) == 1 {
				run, err := store.Get(runCtx, args[0])
				if errors.Is(err, history.ErrNotFound) {
					return fmt.Errorf("run %s not found", args[0])
				}
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, run)
				}
				printRunDetail(cmd, *run)
				return nil
			}

			runs, err := store.List(runCtx, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(historyTimeFormat),
					truncate(displayRunSource(run.SourceName), 32),
					run.TargetLanguage,
					run.Provider,
					fmt.Sprintf("%d/%d", run.ChunksDone, run.ChunksTotal),
					string(run.Status),
					truncate(run.ErrorMessage, 40),
				})
			}
			fmt.Fprint(out, renderTable([]column{
				leftCol("ID"), leftCol("Started"), leftCol("Source"), leftCol("Lang"),
				leftCol("Provider"), rightCol("Chunks"), leftCol("Status"), leftCol("Error"),
			}, rows))
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete finished runs older than this many days")
	cmd.Flags().BoolVar(&repair, "repair", false, "Mark runs left running by a crashed process as failed")
	return cmd
}

func printRunDetail(cmd *cobra.Command, run history.Run) {
	out := cmd.OutOrStdout()
	kind := statusInfo
	switch run.Status {
	case history.StatusCompleted:
		kind = statusOK
	case history.StatusFailed:
		kind = statusError
	}
	colorize := isTerminal(out)
	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintln(out, renderStatusLine("Status", kind, string(run.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Source", statusInfo, displayRunSource(run.SourceName), false))
	fmt.Fprintln(out, renderStatusLine("Content", statusInfo, run.ContentType, false))
	fmt.Fprintln(out, renderStatusLine("Target", statusInfo, run.TargetLanguage, false))
	fmt.Fprintln(out, renderStatusLine("Provider", statusInfo, run.Provider+" "+run.Model, false))
	fmt.Fprintln(out, renderStatusLine("Segments", statusInfo, strconv.Itoa(run.Segments), false))
	fmt.Fprintln(out, renderStatusLine("Chunks", statusInfo,
		fmt.Sprintf("%d/%d (%d%%)", run.ChunksDone, run.ChunksTotal, run.Progress()), false))
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.RFC3339), false))
	if run.FinishedAt != nil {
		fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, run.Duration().Round(time.Millisecond).String(), false))
	}
	if run.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func displayRunSource(source string) string {
	if source == "" {
		return "-"
	}
	return source
}
