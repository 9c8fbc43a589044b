package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stockflow/datarecording"
)

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs <database.sqlite3>",
		Short: "List the runs recorded in a database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd.Context(), args[0], cmd)
		},
	}
}

func listRuns(ctx context.Context, path string, cmd *cobra.Command) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	reader := datarecording.NewReader(path)
	defer reader.Close()

	reader.MapTable(datarecording.RunInfoTable, datarecording.RunInfo{})
	reader.MapTable(datarecording.EventFiringTable,
		datarecording.EventFiring{})

	if ctx == nil {
		ctx = context.Background()
	}

	infos, _, err := reader.Query(ctx, datarecording.RunInfoTable,
		datarecording.QueryParams{OrderBy: "RunID, rowid"})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	lastRun := ""

	for _, res := range infos {
		info := res.(*datarecording.RunInfo)

		if info.RunID != lastRun {
			_, firings, err := reader.Query(ctx,
				datarecording.EventFiringTable,
				datarecording.QueryParams{
					Where: "RunID = ?",
					Args:  []any{info.RunID},
				})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "run %s (%d event firings)\n", info.RunID, firings)
			lastRun = info.RunID
		}

		fmt.Fprintf(out, "  %-18s %s\n", info.Property, info.Value)
	}

	return nil
}
