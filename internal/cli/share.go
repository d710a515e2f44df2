package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShareCommand creates the share command: append a witness-log
// record. Sharing is local bookkeeping only; nothing is delivered.
// The same entry may be shared with the same hand any number of times.
func NewShareCommand(opts *RootOptions) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "share <entry-id> <hand-id>",
		Short: "Mark an entry as shared with a trusted hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			entryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			handID, err := parseID(args[1])
			if err != nil {
				return err
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.Hands().Share(cmd.Context(), entryID, handID, reason)
			if err != nil {
				return f.Fail(err)
			}

			f.VerboseLog("share record %d created", id)
			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id, "entry_id": entryID, "trusted_hand_id": handID})
			}
			return f.Success(fmt.Sprintf("Entry %d marked as shared with hand %d.", entryID, handID))
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why this entry was shared")

	return cmd
}
