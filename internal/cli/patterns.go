package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/view"
)

// patternsPayload is the JSON projection of the pattern windows.
type patternsPayload struct {
	Weekly  patternRow `json:"weekly"`
	Monthly patternRow `json:"monthly"`
}

type patternRow struct {
	Built   int `json:"built"`
	Helped  int `json:"helped"`
	Learned int `json:"learned"`
	Total   int `json:"total"`
}

// NewPatternsCommand creates the patterns command: type counts over
// the trailing 7-day and 30-day windows.
func NewPatternsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Show weekly and monthly type distributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			projector := view.New(st.Entries(), st.Notifier(), st.Clock(), time.Local)
			patterns, err := projector.Patterns(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				return f.Success(patternsPayload{
					Weekly:  patternRow(patterns.Weekly),
					Monthly: patternRow(patterns.Monthly),
				})
			}

			var b strings.Builder
			writeWindow(&b, "Last 7 days", patterns.Weekly)
			b.WriteString("\n")
			writeWindow(&b, "Last 30 days", patterns.Monthly)
			return f.Success(strings.TrimRight(b.String(), "\n"))
		},
	}

	return cmd
}

func writeWindow(b *strings.Builder, title string, d view.PatternData) {
	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "  Built:   %d\n", d.Built)
	fmt.Fprintf(b, "  Helped:  %d\n", d.Helped)
	fmt.Fprintf(b, "  Learned: %d\n", d.Learned)
	fmt.Fprintf(b, "  Total:   %d\n", d.Total)
}
