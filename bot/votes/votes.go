package votes

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"mlbot/database"
	"mlbot/database/store"
	"mlbot/shared"
	"mlbot/shared/embeds"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// How long moderators have to vote on a map.
const DEFAULT_DURATION = 36 * time.Hour

// The subset of [*discordgo.Session] needed to close votes.
type Session interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageUnpin(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Keeps track of open map votes and closes them once they expire.
// Every change is written to the backing store's file straight away so votes survive restarts.
type Tracker struct {
	store    *store.Store[database.VoteExpiry]
	duration time.Duration
	now      func() time.Time

	sweepMu sync.Mutex
}

func NewTracker(s *store.Store[database.VoteExpiry], duration time.Duration) *Tracker {
	if duration <= 0 {
		duration = DEFAULT_DURATION
	}

	return &Tracker{store: s, duration: duration, now: time.Now}
}

// Starts tracking the vote on the given message. It closes after the tracker's duration.
func (t *Tracker) Track(channelID, messageID string) (time.Time, error) {
	expire := t.now().Add(t.duration)

	entry, err := database.NewVoteExpiry(channelID, expire)
	if err != nil {
		return time.Time{}, err
	}

	t.store.Set(messageID, entry)
	return entry.ExpiresAt(), t.store.WriteSnapshot()
}

// Number of votes still open.
func (t *Tracker) Open() int {
	return t.store.Count()
}

// Closes every expired vote and stops tracking it. Votes whose message is gone are dropped,
// other failures are logged and retried on the next sweep.
func (t *Tracker) Sweep(s Session) {
	t.sweepMu.Lock()
	defer t.sweepMu.Unlock()

	now := t.now()
	expired := t.store.FindKeys(func(v database.VoteExpiry) bool {
		return v.ExpiredAt(now)
	})
	if len(expired) == 0 {
		return
	}

	done := make([]string, 0, len(expired))
	for _, msgID := range expired {
		entry, err := t.store.Get(msgID)
		if err != nil {
			continue
		}

		fields := log.Fields{"channel": entry.Channel(), "message": msgID}
		if err := Finalize(s, entry.Channel(), msgID); err != nil {
			if !isGone(err) {
				log.WithFields(fields).WithError(err).Warn("could not close map vote, retrying next sweep")
				continue
			}

			log.WithFields(fields).Info("map vote message is gone, no longer tracking it")
		}

		done = append(done, msgID)
	}

	t.store.Delete(done...)
	if err := t.store.WriteSnapshot(); err != nil {
		log.WithError(err).Error("could not save map votes")
	}
}

// Closes the vote on a message: colors its embed by the ✅ minus ❌ tally and unpins it.
// Messages without embeds are left untouched.
func Finalize(s Session, channelID, messageID string) error {
	msg, err := s.ChannelMessage(channelID, messageID)
	if err != nil {
		return err
	}

	if len(msg.Embeds) == 0 {
		return nil
	}

	embed := *msg.Embeds[0]
	embed.Color = embeds.VoteResultColor(Tally(msg.Reactions))

	edit := discordgo.NewMessageEdit(channelID, messageID).
		SetContent(msg.Content).
		SetEmbeds([]*discordgo.MessageEmbed{&embed})

	if _, err := s.ChannelMessageEditComplex(edit); err != nil {
		return err
	}

	return s.ChannelMessageUnpin(channelID, messageID)
}

// ✅ reactions minus ❌ reactions.
func Tally(reactions []*discordgo.MessageReactions) (result int) {
	for _, r := range reactions {
		if r.Emoji == nil {
			continue
		}

		switch r.Emoji.Name {
		case shared.EMOJIS.CHECK:
			result += r.Count
		case shared.EMOJIS.CROSS:
			result -= r.Count
		}
	}

	return
}

func isGone(err error) bool {
	var rerr *discordgo.RESTError
	if !errors.As(err, &rerr) || rerr.Response == nil {
		return false
	}

	code := rerr.Response.StatusCode
	return code == http.StatusNotFound || code == http.StatusForbidden
}
