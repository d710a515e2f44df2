package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/export"
)

// NewExportCommand creates the export command: serialize the whole
// journal to the fixed text report or the structured JSON document.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var (
		asJSON  bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full journal verbatim",
		Long: "Serialize every entry to a deterministic document: a fixed-layout\n" +
			"text report by default, or the structured JSON export with --json.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			serializer := export.New(st.Entries(), st.Addenda(), st.Clock(), time.Local)
			snap, err := serializer.Snapshot(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}
			f.VerboseLog("snapshot: %d entries, %d addenda", len(snap.Entries), snap.AddendumCount)

			var data []byte
			if asJSON {
				data, err = serializer.JSON(snap)
				if err != nil {
					return f.Fail(err)
				}
				data = append(data, '\n')
			} else {
				data = []byte(serializer.Text(snap))
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o600); err != nil {
					return WrapExitError(ExitCommandError, "write export file", err)
				}
				return f.Success(fmt.Sprintf("Exported %d entries to %s.", len(snap.Entries), outPath))
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "export the structured JSON document")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")

	return cmd
}
