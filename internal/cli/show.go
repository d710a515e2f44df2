package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thehand/internal/journal"
)

// showPayload is the JSON projection of an entry detail view.
type showPayload struct {
	Entry   entryRow      `json:"entry"`
	Thread  *threadRow    `json:"thread,omitempty"`
	Addenda []addendumRow `json:"addenda"`
	Shares  []sharedRow   `json:"shares"`
}

type addendumRow struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type sharedRow struct {
	ID            int64  `json:"id"`
	TrustedHandID int64  `json:"trusted_hand_id"`
	Reason        string `json:"reason,omitempty"`
	SharedAt      string `json:"shared_at"`
}

// NewShowCommand creates the show command: one entry with its addenda
// and witness log.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry with its addenda and shares",
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
			addenda, err := st.Addenda().ForEntry(ctx, id)
			if err != nil {
				return f.Fail(err)
			}
			shares, err := st.Hands().SharesForEntry(ctx, id)
			if err != nil {
				return f.Fail(err)
			}

			// A dangling thread reference resolves as "no thread".
			var thread *journal.Thread
			if entry.ThreadID != nil {
				if t, err := st.Threads().Get(ctx, *entry.ThreadID); err == nil {
					thread = &t
				}
			}

			if opts.Format == "json" {
				payload := showPayload{
					Entry:   toEntryRow(entry),
					Addenda: make([]addendumRow, 0, len(addenda)),
					Shares:  make([]sharedRow, 0, len(shares)),
				}
				if thread != nil {
					row := toThreadRow(*thread)
					payload.Thread = &row
				}
				for _, a := range addenda {
					payload.Addenda = append(payload.Addenda, addendumRow{
						ID:        a.ID,
						Content:   a.Content,
						CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
					})
				}
				for _, s := range shares {
					payload.Shares = append(payload.Shares, sharedRow{
						ID:            s.ID,
						TrustedHandID: s.TrustedHandID,
						Reason:        s.Reason,
						SharedAt:      s.SharedAt.UTC().Format(time.RFC3339),
					})
				}
				return f.Success(payload)
			}

			return f.Success(renderEntryDetail(entry, thread, addenda, shares))
		},
	}

	return cmd
}

func renderEntryDetail(e journal.Entry, thread *journal.Thread, addenda []journal.Addendum, shares []journal.SharedEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entry %d  %s  %s", e.ID, typeLabel(e.Type), e.CreatedAt.Local().Format("2006-01-02 15:04"))
	if e.IsLocked {
		fmt.Fprintf(&b, "  %s", lockedBadge.Sprint("[Locked]"))
	}
	b.WriteString("\n")
	if thread != nil {
		fmt.Fprintf(&b, "Thread: %s\n", thread.Name)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Who or what was affected?\n%s\n", e.WhoWhat)
	if strings.TrimSpace(e.WhatCost) != "" {
		fmt.Fprintf(&b, "\nWhat did it cost you?\n%s\n", e.WhatCost)
	}
	if strings.TrimSpace(e.WhatDifferently) != "" {
		fmt.Fprintf(&b, "\nWhat would you do differently?\n%s\n", e.WhatDifferently)
	}

	if len(addenda) > 0 {
		b.WriteString("\nAddenda:\n")
		for _, a := range addenda {
			fmt.Fprintf(&b, "  %s  %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Content)
		}
	}
	if len(shares) > 0 {
		b.WriteString("\nShared with:\n")
		for _, s := range shares {
			fmt.Fprintf(&b, "  hand %d  %s", s.TrustedHandID, s.SharedAt.Local().Format("2006-01-02 15:04"))
			if s.Reason != "" {
				fmt.Fprintf(&b, "  (%s)", s.Reason)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
