package database

import (
	"strconv"
	"time"
)

// When a map vote closes and where its message lives. Stored keyed by the vote message ID.
type VoteExpiry struct {
	Expire    int64 `json:"expire"`     // Unix seconds.
	ChannelID int64 `json:"channel_id"` // Snowflake, kept numeric for compatibility with existing snapshots.
}

func NewVoteExpiry(channelID string, expire time.Time) (VoteExpiry, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return VoteExpiry{}, err
	}

	return VoteExpiry{Expire: expire.Unix(), ChannelID: id}, nil
}

func (v VoteExpiry) ExpiresAt() time.Time {
	return time.Unix(v.Expire, 0)
}

func (v VoteExpiry) Channel() string {
	return strconv.FormatInt(v.ChannelID, 10)
}

func (v VoteExpiry) ExpiredAt(now time.Time) bool {
	return !now.Before(v.ExpiresAt())
}
