package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/journal"
)

// NewAddCommand creates the add command: record a new entry.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	var (
		typeName    string
		who         string
		cost        string
		differently string
		threadID    int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new entry",
		Long: "Record a new entry of type built, helped, or learned. The entry\n" +
			"stays editable for 24 hours, then locks for good.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			typ, err := journal.ParseEntryType(strings.ToUpper(typeName))
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --type", err)
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			var tid *int64
			if threadID > 0 {
				tid = &threadID
			}

			id, err := st.Entries().Create(cmd.Context(), typ, who, cost, differently, tid)
			if err != nil {
				return f.Fail(err)
			}

			f.VerboseLog("entry %d created", id)
			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id})
			}
			return f.Success(fmt.Sprintf("Recorded entry %d (%s).", id, typ))
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "entry type: built|helped|learned (required)")
	cmd.Flags().StringVar(&who, "who", "", "who or what was affected (required)")
	cmd.Flags().StringVar(&cost, "cost", "", "what it cost you")
	cmd.Flags().StringVar(&differently, "differently", "", "what you would do differently")
	cmd.Flags().Int64Var(&threadID, "thread", 0, "thread id to file the entry under")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("who")

	return cmd
}
