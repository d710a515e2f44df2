package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryType(t *testing.T) {
	for _, name := range []string{"BUILT", "HELPED", "LEARNED"} {
		typ, err := ParseEntryType(name)
		require.NoError(t, err)
		assert.Equal(t, EntryType(name), typ)
		assert.True(t, typ.Valid())
	}

	_, err := ParseEntryType("SHIPPED")
	assert.Error(t, err)
	assert.False(t, EntryType("").Valid())
}

func TestCanEdit_WindowBoundary(t *testing.T) {
	created := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	e := Entry{CreatedAt: created}

	assert.True(t, e.CanEdit(created), "editable at creation")
	assert.True(t, e.CanEdit(created.Add(EditWindow-time.Second)), "editable one second before the boundary")
	assert.False(t, e.CanEdit(created.Add(EditWindow)), "not editable at exactly +24h")
	assert.False(t, e.CanEdit(created.Add(EditWindow+time.Second)), "not editable after the boundary")
}

func TestCanEdit_LockedFlagWins(t *testing.T) {
	created := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	e := Entry{CreatedAt: created, IsLocked: true}

	// A locked entry is never editable, whatever the clock says.
	assert.False(t, e.CanEdit(created))
}

func TestLockDue(t *testing.T) {
	created := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	open := Entry{CreatedAt: created}
	assert.False(t, open.LockDue(created.Add(EditWindow-time.Second)))
	assert.True(t, open.LockDue(created.Add(EditWindow)))

	locked := Entry{CreatedAt: created, IsLocked: true}
	assert.False(t, locked.LockDue(created.Add(48*time.Hour)), "already-locked entries are never due again")
}
