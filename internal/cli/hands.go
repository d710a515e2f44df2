package cli

import (
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/journal"
)

// handRow is the JSON projection of a trusted hand.
type handRow struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	AddedAt    string `json:"added_at"`
}

// NewHandsCommand creates the hands command group: the trusted-hand
// contact list. Capacity is bounded at journal.MaxTrustedHands; the
// store, not this command, enforces it.
func NewHandsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hands",
		Short: "Manage trusted hands (witness contacts, max 3)",
	}

	cmd.AddCommand(newHandsAddCommand(opts))
	cmd.AddCommand(newHandsRemoveCommand(opts))
	cmd.AddCommand(newHandsListCommand(opts))

	return cmd
}

func newHandsAddCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <identifier>",
		Short: "Add a trusted hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.Hands().Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id})
			}
			return f.Success(fmt.Sprintf("Trusted hand %d added.", id))
		},
	}

	return cmd
}

func newHandsRemoveCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a trusted hand (its share records stay)",
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

			if err := st.Hands().Remove(cmd.Context(), id); err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id})
			}
			return f.Success(fmt.Sprintf("Trusted hand %d removed.", id))
		},
	}

	return cmd
}

func newHandsListCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trusted hands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			hands, err := st.Hands().Hands(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				rows := make([]handRow, 0, len(hands))
				for _, h := range hands {
					rows = append(rows, handRow{
						ID:         h.ID,
						Name:       h.Name,
						Identifier: h.Identifier,
						AddedAt:    h.AddedAt.UTC().Format(time.RFC3339),
					})
				}
				return f.Success(rows)
			}

			if len(hands) == 0 {
				return f.Success("No trusted hands.")
			}
			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("ID", "NAME", "IDENTIFIER", "ADDED")
			for _, h := range hands {
				table.AddRow(h.ID, h.Name, h.Identifier, h.AddedAt.Local().Format("2006-01-02"))
			}
			f.VerboseLog("%d of %d slots used", len(hands), journal.MaxTrustedHands)
			return f.Success(table.String())
		},
	}

	return cmd
}
