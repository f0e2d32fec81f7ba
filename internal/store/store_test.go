package store

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/blackjack/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.db")
	s, err := Open(path, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadParticipants(t *testing.T) {
	s := newTestStore(t)

	alice := game.NewParticipant("alice", 115, false)
	alice.RecordWin()
	bot := game.NewParticipant("bot", 80, true)

	require.NoError(t, s.SaveParticipants([]game.Snapshot{alice.Snapshot(), bot.Snapshot()}))

	loaded := s.LoadParticipants()
	require.Len(t, loaded, 2)
	assert.Equal(t, "alice", loaded[0].Name)
	assert.Equal(t, 115, loaded[0].Bank)
	assert.Equal(t, 1, loaded[0].Stats.Wins)
	assert.True(t, loaded[1].Automated)
}

func TestSaveParticipantsOverwrites(t *testing.T) {
	s := newTestStore(t)

	p := game.NewParticipant("alice", 100, false)
	require.NoError(t, s.SaveParticipants([]game.Snapshot{p.Snapshot()}))

	p.ReceiveWinnings(50)
	require.NoError(t, s.SaveParticipants([]game.Snapshot{p.Snapshot()}))

	loaded := s.LoadParticipants()
	require.Len(t, loaded, 1)
	assert.Equal(t, 150, loaded[0].Bank)
}

func TestLoadParticipantsEmptyStore(t *testing.T) {
	s := newTestStore(t)
	assert.Nil(t, s.LoadParticipants())
}

func TestLoadParticipantsUnknownSchemaVersion(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(
		`insert into kv (key, version, value) values (?, ?, ?)`,
		participantsKey, schemaVersion+1, `[{"name":"future"}]`,
	)
	require.NoError(t, err)

	assert.Nil(t, s.LoadParticipants(), "future schema should be skipped, not decoded")
}

func TestLoadParticipantsCorruptValue(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(
		`insert into kv (key, version, value) values (?, ?, ?)`,
		participantsKey, schemaVersion, `{not json`,
	)
	require.NoError(t, err)

	assert.Nil(t, s.LoadParticipants())
}

func TestActivityLog(t *testing.T) {
	s := newTestStore(t)

	s.AppendLog("alice joins", "id-1")
	s.AppendLog("alice antes 10", "id-1")
	s.AppendLog("round over", "")

	entries := s.RecentLog(2)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "round over", entries[0].Message)
	assert.Equal(t, "alice antes 10", entries[1].Message)
	assert.Equal(t, "id-1", entries[1].ParticipantID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestExportJSON(t *testing.T) {
	s := newTestStore(t)

	p := game.NewParticipant("alice", 100, false)
	require.NoError(t, s.SaveParticipants([]game.Snapshot{p.Snapshot()}))
	s.AppendLog("alice joins", p.ID)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, s.ExportJSON(path, 10))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export Export
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, schemaVersion, export.Version)
	require.Len(t, export.Participants, 1)
	assert.Equal(t, "alice", export.Participants[0].Name)
	require.Len(t, export.ActivityLog, 1)
}
