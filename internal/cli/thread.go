package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/journal"
	"github.com/roach88/thehand/internal/store"
)

// threadRow is the JSON/table projection of a thread.
type threadRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	ClosedAt    string `json:"closed_at,omitempty"`
	IsClosed    bool   `json:"is_closed"`
}

func toThreadRow(t journal.Thread) threadRow {
	row := threadRow{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		IsClosed:    t.IsClosed,
	}
	if t.ClosedAt != nil {
		row.ClosedAt = t.ClosedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// NewThreadCommand creates the thread command group.
func NewThreadCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Manage threads (long-running groupings of entries)",
	}

	cmd.AddCommand(newThreadCreateCommand(opts))
	cmd.AddCommand(newThreadCloseCommand(opts))
	cmd.AddCommand(newThreadReopenCommand(opts))
	cmd.AddCommand(newThreadDeleteCommand(opts))
	cmd.AddCommand(newThreadListCommand(opts))

	return cmd
}

func newThreadCreateCommand(opts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.Threads().Create(cmd.Context(), args[0], description)
			if err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				return f.Success(map[string]int64{"id": id})
			}
			return f.Success(fmt.Sprintf("Thread %d created.", id))
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what this thread is about")

	return cmd
}

func newThreadCloseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return threadStateChange(opts, cmd, args[0], "closed", (*store.ThreadStore).Close)
		},
	}
}

func newThreadReopenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a closed thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return threadStateChange(opts, cmd, args[0], "reopened", (*store.ThreadStore).Reopen)
		},
	}
}

func newThreadDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a thread (its entries stay)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return threadStateChange(opts, cmd, args[0], "deleted", (*store.ThreadStore).Delete)
		},
	}
}

// threadStateChange opens the store, applies one ThreadStore operation
// to the parsed id, and reports the outcome.
func threadStateChange(opts *RootOptions, cmd *cobra.Command, arg, verb string, op func(*store.ThreadStore, context.Context, int64) error) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := op(st.Threads(), cmd.Context(), id); err != nil {
		return f.Fail(err)
	}

	if opts.Format == "json" {
		return f.Success(map[string]int64{"id": id})
	}
	return f.Success(fmt.Sprintf("Thread %d %s.", id, verb))
}

func newThreadListCommand(opts *RootOptions) *cobra.Command {
	var (
		closedOnly bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List threads (active by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			var threads []journal.Thread
			switch {
			case all:
				threads, err = st.Threads().All(cmd.Context())
			case closedOnly:
				threads, err = st.Threads().Closed(cmd.Context())
			default:
				threads, err = st.Threads().Active(cmd.Context())
			}
			if err != nil {
				return f.Fail(err)
			}

			if opts.Format == "json" {
				rows := make([]threadRow, 0, len(threads))
				for _, t := range threads {
					rows = append(rows, toThreadRow(t))
				}
				return f.Success(rows)
			}

			if len(threads) == 0 {
				return f.Success("No threads.")
			}
			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("ID", "NAME", "CREATED", "STATE")
			for _, t := range threads {
				state := "active"
				if t.IsClosed {
					state = "closed"
					if t.ClosedAt != nil {
						state = fmt.Sprintf("closed %s", t.ClosedAt.Local().Format("2006-01-02"))
					}
				}
				table.AddRow(t.ID, t.Name, t.CreatedAt.Local().Format("2006-01-02"), state)
			}
			return f.Success(table.String())
		},
	}

	cmd.Flags().BoolVar(&closedOnly, "closed", false, "list closed threads")
	cmd.Flags().BoolVar(&all, "all", false, "list all threads")

	return cmd
}
