package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/ui/render"
)

const flagStats = "stats"

const maxTitleWidth = 48

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolP(flagStats, "s", false, "Show listen, like and download counters")
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the tracks in the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context(), cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		tracks := e.catalog.Tracks()
		if len(tracks) == 0 {
			cmd.Println("catalog is empty, run `musichub import` first")
			return nil
		}
		cmd.Println(trackTable(tracks, lo.Must(cmd.Flags().GetBool(flagStats))))
		cmd.Printf("%s tracks\n", humanize.Comma(int64(len(tracks))))
		return nil
	},
}

func trackTable(tracks []catalog.Track, stats bool) string {
	headers := []string{"ID", "TITLE", "ARTIST", "LENGTH"}
	if stats {
		headers = append(headers, "LISTENS", "LIKES", "DOWNLOADS")
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, tr := range tracks {
		row := []string{
			strconv.FormatInt(tr.ID, 10),
			render.TruncateEllipsis(render.Sanitize(tr.Title), maxTitleWidth),
			render.TruncateEllipsis(render.Sanitize(tr.ArtistLine()), maxTitleWidth),
			formatLength(tr.Duration),
		}
		if stats {
			row = append(row,
				humanize.Comma(tr.Listens),
				humanize.Comma(tr.Likes),
				humanize.Comma(tr.Downloads),
			)
		}
		t.Row(row...)
	}
	return strings.TrimRight(t.String(), "\n")
}

func formatLength(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Second)
	h, m, sec := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
