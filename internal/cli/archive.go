package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/view"
)

// archiveRow is the JSON projection of one archive month group.
type archiveRow struct {
	Label   string     `json:"label"`
	Year    int        `json:"year"`
	Month   int        `json:"month"`
	Count   int        `json:"count"`
	Entries []entryRow `json:"entries"`
}

// NewArchiveCommand creates the archive command: entries bucketed by
// calendar month, newest month first.
func NewArchiveCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse entries grouped by month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			projector := view.New(st.Entries(), st.Notifier(), st.Clock(), time.Local)
			groups, err := projector.Archive(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				rows := make([]archiveRow, 0, len(groups))
				for _, g := range groups {
					rows = append(rows, archiveRow{
						Label:   g.Label,
						Year:    g.Year,
						Month:   int(g.Month),
						Count:   g.Count,
						Entries: toEntryRows(g.Entries),
					})
				}
				return f.Success(rows)
			}

			if len(groups) == 0 {
				return f.Success("No entries yet.")
			}
			var b strings.Builder
			for _, g := range groups {
				fmt.Fprintf(&b, "%s (%d)\n", g.Label, g.Count)
				for _, e := range g.Entries {
					badge := ""
					if e.IsLocked {
						badge = "  " + lockedBadge.Sprint("[Locked]")
					}
					fmt.Fprintf(&b, "  %d  %s  %s%s\n", e.ID, typeLabel(e.Type), e.WhoWhat, badge)
				}
				b.WriteString("\n")
			}
			return f.Success(strings.TrimRight(b.String(), "\n"))
		},
	}

	return cmd
}
