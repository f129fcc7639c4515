package votes

import (
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mlbot/database"
	"mlbot/database/store"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu       sync.Mutex
	messages map[string]*discordgo.Message
	fetchErr error
	edits    []*discordgo.MessageEdit
	unpinned []string
}

func (f *fakeSession) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	msg, ok := f.messages[messageID]
	if !ok {
		return nil, &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	}

	return msg, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeSession) ChannelMessageUnpin(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.unpinned = append(f.unpinned, messageID)
	return nil
}

func reactions(yes, no int) []*discordgo.MessageReactions {
	return []*discordgo.MessageReactions{
		{Emoji: &discordgo.Emoji{Name: "✅"}, Count: yes},
		{Emoji: &discordgo.Emoji{Name: "❌"}, Count: no},
		{Emoji: &discordgo.Emoji{Name: "🔥"}, Count: 40},
	}
}

func voteMessage(id string, yes, no int) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		ChannelID: "100",
		Content:   "<@&5>\n",
		Embeds:    []*discordgo.MessageEmbed{{Description: "vote!", Color: discordutil.PENDING}},
		Reactions: reactions(yes, no),
	}
}

func newTracker(t *testing.T) (*Tracker, *store.Store[database.VoteExpiry], string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mapvotes.json")
	s, err := store.New[database.VoteExpiry](path)
	require.NoError(t, err)

	return NewTracker(s, time.Hour), s, path
}

func TestTally(t *testing.T) {
	assert.Equal(t, 2, Tally(reactions(5, 3)))
	assert.Equal(t, 0, Tally(reactions(1, 1)))
	assert.Equal(t, -1, Tally(reactions(1, 2)))
	assert.Equal(t, 0, Tally(nil))
}

func TestTrackPersists(t *testing.T) {
	tracker, _, path := newTracker(t)

	now := time.Unix(1_700_000_000, 0)
	tracker.now = func() time.Time { return now }

	expire, err := tracker.Track("100", "200")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expire)

	reloaded, err := store.New[database.VoteExpiry](path)
	require.NoError(t, err)

	entry, err := reloaded.Get("200")
	require.NoError(t, err)
	assert.Equal(t, int64(100), entry.ChannelID)
	assert.Equal(t, now.Add(time.Hour).Unix(), entry.Expire)
}

func TestTrackRejectsBadChannel(t *testing.T) {
	tracker, s, _ := newTracker(t)

	_, err := tracker.Track("not-a-snowflake", "200")
	assert.Error(t, err)
	assert.True(t, s.IsEmpty())
}

func TestSweepFinalizesExpiredVotes(t *testing.T) {
	tracker, s, path := newTracker(t)

	now := time.Unix(1_700_000_000, 0)
	tracker.now = func() time.Time { return now }

	s.Set("1", database.VoteExpiry{Expire: now.Add(-time.Minute).Unix(), ChannelID: 100})
	s.Set("2", database.VoteExpiry{Expire: now.Unix(), ChannelID: 100})
	s.Set("3", database.VoteExpiry{Expire: now.Add(time.Minute).Unix(), ChannelID: 100})

	session := &fakeSession{messages: map[string]*discordgo.Message{
		"1": voteMessage("1", 4, 1),
		"2": voteMessage("2", 1, 3),
		"3": voteMessage("3", 9, 0),
	}}

	tracker.Sweep(session)

	require.Len(t, session.edits, 2)
	colors := map[string]int{}
	for _, e := range session.edits {
		require.NotNil(t, e.Embeds)
		colors[e.ID] = (*e.Embeds)[0].Color
		assert.Equal(t, "<@&5>\n", *e.Content)
	}
	assert.Equal(t, map[string]int{"1": discordutil.SUCCESS, "2": discordutil.FAIL}, colors)
	assert.ElementsMatch(t, []string{"1", "2"}, session.unpinned)

	assert.Equal(t, []string{"3"}, s.Keys())
	assert.Equal(t, 1, tracker.Open())

	reloaded, err := store.New[database.VoteExpiry](path)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, reloaded.Keys())
}

func TestSweepLeavesMessagesWithoutEmbeds(t *testing.T) {
	tracker, s, _ := newTracker(t)
	s.Set("1", database.VoteExpiry{Expire: 0, ChannelID: 100})

	session := &fakeSession{messages: map[string]*discordgo.Message{
		"1": {ID: "1", Content: "someone removed the embed"},
	}}

	tracker.Sweep(session)

	assert.Empty(t, session.edits)
	assert.Empty(t, session.unpinned)
	assert.True(t, s.IsEmpty())
}

func TestSweepDropsDeletedMessages(t *testing.T) {
	tracker, s, _ := newTracker(t)
	s.Set("gone", database.VoteExpiry{Expire: 0, ChannelID: 100})

	tracker.Sweep(&fakeSession{messages: map[string]*discordgo.Message{}})

	assert.True(t, s.IsEmpty())
}

func TestSweepRetriesOnOtherErrors(t *testing.T) {
	tracker, s, _ := newTracker(t)
	s.Set("1", database.VoteExpiry{Expire: 0, ChannelID: 100})

	session := &fakeSession{fetchErr: &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway}}}
	tracker.Sweep(session)
	assert.True(t, s.HasKey("1"))

	session.fetchErr = nil
	session.messages = map[string]*discordgo.Message{"1": voteMessage("1", 2, 2)}
	tracker.Sweep(session)

	assert.False(t, s.HasKey("1"))
	require.Len(t, session.edits, 1)
	assert.Equal(t, discordutil.TIE, (*session.edits[0].Embeds)[0].Color)
}
