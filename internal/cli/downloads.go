package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/downloads"
	"github.com/llehouerou/musichub/internal/ui/render"
)

const flagPrune = "prune"

func init() {
	rootCmd.AddCommand(downloadsCmd)
	downloadsCmd.Flags().Bool(flagPrune, false, "Delete finished jobs instead of listing")
}

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "List download jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		jobs := downloads.New(e.db)
		if lo.Must(cmd.Flags().GetBool(flagPrune)) {
			n, err := jobs.DeleteFinished(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("removed %d finished jobs\n", n)
			return nil
		}

		list, err := jobs.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cmd.Println("no downloads")
			return nil
		}
		cmd.Println(jobTable(list, e.catalog))
		return nil
	},
}

func jobTable(jobs []downloads.Job, c catalog.Lookup) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("TRACK", "STATUS", "ATTEMPTS", "UPDATED", "ERROR").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})

	for _, j := range jobs {
		title := "#" + humanize.Comma(j.TrackID)
		if tr, ok := c.ByID(j.TrackID); ok {
			title = render.TruncateEllipsis(render.Sanitize(tr.Title), maxTitleWidth)
		}
		t.Row(
			title,
			j.Status,
			humanize.Comma(int64(j.Attempts)),
			humanize.Time(j.UpdatedAt),
			render.TruncateEllipsis(j.LastError, maxTitleWidth),
		)
	}
	return t.String()
}
