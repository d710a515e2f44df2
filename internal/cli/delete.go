package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command. Deletion ignores lock
// state and takes the entry's addenda with it.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry and its addenda",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Entries().Delete(cmd.Context(), id); err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id})
			}
			return f.Success(fmt.Sprintf("Entry %d deleted.", id))
		},
	}

	return cmd
}
