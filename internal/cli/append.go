package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAppendCommand creates the append command: attach an addendum.
// This works on locked entries; it is the sanctioned way to add
// context after the edit window closes.
func NewAppendCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append <id> <content>...",
		Short: "Append an addendum to an entry (locked or not)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			addendumID, err := st.Addenda().Add(cmd.Context(), id, content)
			if err != nil {
				return f.Fail(err)
			}

			f.VerboseLog("addendum %d created", addendumID)
			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": addendumID, "entry_id": id})
			}
			return f.Success(fmt.Sprintf("Addendum added to entry %d.", id))
		},
	}

	return cmd
}
