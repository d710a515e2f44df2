package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/roach88/thehand/internal/journal"
)

var lockedBadge = color.New(color.FgRed, color.Bold)

// entryRow is the JSON/table projection of an entry for CLI output.
type entryRow struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	WhoWhat         string `json:"who_what"`
	WhatCost        string `json:"what_cost,omitempty"`
	WhatDifferently string `json:"what_differently,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	IsLocked        bool   `json:"is_locked"`
	ThreadID        *int64 `json:"thread_id,omitempty"`
}

func toEntryRow(e journal.Entry) entryRow {
	return entryRow{
		ID:              e.ID,
		Type:            string(e.Type),
		WhoWhat:         e.WhoWhat,
		WhatCost:        e.WhatCost,
		WhatDifferently: e.WhatDifferently,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339),
		IsLocked:        e.IsLocked,
		ThreadID:        e.ThreadID,
	}
}

func toEntryRows(entries []journal.Entry) []entryRow {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toEntryRow(e))
	}
	return rows
}

// entriesTable renders entries as an aligned table for text output.
func entriesTable(entries []journal.Entry) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ID", "TYPE", "DATE", "WHO/WHAT", "")
	for _, e := range entries {
		badge := ""
		if e.IsLocked {
			badge = lockedBadge.Sprint("[Locked]")
		}
		table.AddRow(e.ID, typeLabel(e.Type), e.CreatedAt.Local().Format("2006-01-02 15:04"), e.WhoWhat, badge)
	}
	return table.String()
}

func typeLabel(t journal.EntryType) string {
	switch t {
	case journal.TypeBuilt:
		return color.GreenString(string(t))
	case journal.TypeHelped:
		return color.BlueString(string(t))
	case journal.TypeLearned:
		return color.YellowString(string(t))
	}
	return string(t)
}

// parseID parses a positional id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid id %q", arg), nil)
	}
	return id, nil
}
