package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vote struct {
	Expire    int64 `json:"expire"`
	ChannelID int64 `json:"channel_id"`
}

func TestStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cogstate", "mapvotes.json")

	s, err := New[vote](path)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.True(t, s.SavedAt().IsZero())

	s.Set("1300000000000000001", vote{Expire: 1_800_000_000, ChannelID: 1250611476444479631})
	s.Set("1300000000000000002", vote{Expire: 1_800_000_100, ChannelID: 1250611476444479631})
	require.NoError(t, s.WriteSnapshot())

	reloaded, err := New[vote](path)
	require.NoError(t, err)

	assert.Equal(t, s.Entries(), reloaded.Entries())
	assert.WithinDuration(t, time.Now(), reloaded.SavedAt(), 5*time.Second)

	v, err := reloaded.Get("1300000000000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(1250611476444479631), v.ChannelID, "snowflakes survive the round trip exactly")
}

func TestStoreReadsExistingEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapvotes.json")
	raw := `{"saved_at": 1700000000, "data": {"42": {"expire": 1700003600, "channel_id": 7}}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	s, err := New[vote](path)
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1_700_000_000, 0), s.SavedAt())
	assert.Equal(t, StoreData[vote]{"42": {Expire: 1_700_003_600, ChannelID: 7}}, s.Entries())
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapvotes.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := New[vote](path)
	assert.Error(t, err)
}

func TestStoreEntriesIsACopy(t *testing.T) {
	s, err := New[vote](filepath.Join(t.TempDir(), "x.json"))
	require.NoError(t, err)

	s.Set("a", vote{Expire: 1})
	entries := s.Entries()
	entries["b"] = vote{Expire: 2}

	assert.Equal(t, 1, s.Count())
	assert.False(t, s.HasKey("b"))
}

func TestStoreFindKeysAndDelete(t *testing.T) {
	s, err := New[vote](filepath.Join(t.TempDir(), "x.json"))
	require.NoError(t, err)

	s.Set("c", vote{Expire: 30})
	s.Set("a", vote{Expire: 10})
	s.Set("b", vote{Expire: 20})

	expired := s.FindKeys(func(v vote) bool { return v.Expire <= 20 })
	assert.Equal(t, []string{"a", "b"}, expired)

	s.Delete(expired...)
	assert.Equal(t, []string{"c"}, s.Keys())
}
