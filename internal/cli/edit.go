package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/journal"
)

// NewEditCommand creates the edit command. Edits succeed only while
// the entry's 24h window is open; the store re-checks expiry at the
// moment of the update.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	var (
		typeName    string
		who         string
		cost        string
		differently string
		threadID    int64
		clearThread bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry while its 24h window is open",
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

			ctx := cmd.Context()
			entry, err := st.Entries().Get(ctx, id)
			if err != nil {
				return f.Fail(err)
			}

			if cmd.Flags().Changed("type") {
				typ, err := journal.ParseEntryType(strings.ToUpper(typeName))
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --type", err)
				}
				entry.Type = typ
			}
			if cmd.Flags().Changed("who") {
				entry.WhoWhat = who
			}
			if cmd.Flags().Changed("cost") {
				entry.WhatCost = cost
			}
			if cmd.Flags().Changed("differently") {
				entry.WhatDifferently = differently
			}
			if clearThread {
				entry.ThreadID = nil
			} else if cmd.Flags().Changed("thread") {
				entry.ThreadID = &threadID
			}

			if err := st.Entries().Update(ctx, entry); err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id})
			}
			return f.Success(fmt.Sprintf("Entry %d updated.", id))
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "entry type: built|helped|learned")
	cmd.Flags().StringVar(&who, "who", "", "who or what was affected")
	cmd.Flags().StringVar(&cost, "cost", "", "what it cost you")
	cmd.Flags().StringVar(&differently, "differently", "", "what you would do differently")
	cmd.Flags().Int64Var(&threadID, "thread", 0, "thread id to file the entry under")
	cmd.Flags().BoolVar(&clearThread, "no-thread", false, "detach the entry from its thread")

	return cmd
}
