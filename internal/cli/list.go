package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/journal"
	"github.com/roach88/thehand/internal/view"
)

// NewListCommand creates the list command: the chronological ledger,
// optionally narrowed to one type. With --watch it keeps printing the
// ledger after every change until interrupted.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var (
		typeName string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries by recency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			var filter *journal.EntryType
			if typeName != "" {
				typ, err := journal.ParseEntryType(strings.ToUpper(typeName))
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --type", err)
				}
				filter = &typ
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			projector := view.New(st.Entries(), st.Notifier(), st.Clock(), time.Local)

			if watch {
				ledgers, err := projector.WatchLedger(cmd.Context(), filter)
				if err != nil {
					return f.Fail(err)
				}
				for entries := range ledgers {
					if err := printLedger(f, opts, entries); err != nil {
						return err
					}
				}
				return nil
			}

			entries, err := projector.Ledger(cmd.Context(), filter)
			if err != nil {
				return f.Fail(err)
			}
			f.VerboseLog("%d entries", len(entries))
			return printLedger(f, opts, entries)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "filter by type: built|helped|learned")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reprint the ledger after every change")

	return cmd
}

func printLedger(f *OutputFormatter, opts *RootOptions, entries []journal.Entry) error {
	if opts.Format == "json" {
		return f.Success(toEntryRows(entries))
	}
	if len(entries) == 0 {
		return f.Success("No entries yet.")
	}
	return f.Success(entriesTable(entries))
}
