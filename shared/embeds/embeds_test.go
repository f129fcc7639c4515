package embeds

import (
	"strings"
	"testing"

	"mlbot/api/maplist"
	"mlbot/shared"
	"mlbot/utils/discordutil"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = maplist.Config{
	"points_bottom_map": 10,
	"points_top_map":    1000,
	"formula_slope":     0.88,
	"map_count":         50,
	"decimal_digits":    0,
}

func TestMapEmbed(t *testing.T) {
	m := maplist.Map{
		Code:          "ZFMOOKU",
		Name:          "Mirage",
		Aliases:       []string{"mir", "mirage2"},
		Difficulty:    -1,
		PlacementCur:  1,
		OptimalHeros:  []string{"geraldo", "nobody"},
		MapPreviewURL: "https://proxy/ZFMOOKU.jpg",
		Creators: []maplist.Creator{
			{Name: "alice", Role: lo.ToPtr("Gameplay")},
			{Name: "bob"},
		},
		Verifications: []maplist.Verification{{Name: "carol", Version: lo.ToPtr(44.0)}},
	}

	embed := NewMapEmbed(m, testConfig, "https://maplist/map/ZFMOOKU", 0xffd54f)

	assert.Equal(t, "Mirage", embed.Title)
	assert.Equal(t, "ZFMOOKU", embed.Author.Name)
	assert.Equal(t, "https://proxy/ZFMOOKU.jpg", embed.Image.URL)
	assert.Contains(t, embed.Description, "-# Aliases: mir - mirage2\n")
	assert.Contains(t, embed.Description, "⏰ #1 (110pt)")
	assert.Contains(t, embed.Description, "**Optimal Heros**\n# 🎒 nobody")

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Creators", embed.Fields[0].Name)
	assert.Equal(t, "- alice *(Gameplay)*\n- bob", embed.Fields[0].Value)
	assert.Equal(t, "Verifier", embed.Fields[1].Name)
	assert.Equal(t, "- carol *(Current ver)*", embed.Fields[1].Value)
}

func TestExpertMapEmbed(t *testing.T) {
	m := maplist.Map{Code: "X", Name: "Tricky", Difficulty: 3, PlacementCur: -1}

	embed := NewMapEmbed(m, testConfig, "", 0)
	assert.Equal(t, "😈 True Expert\n", embed.Description)
	assert.Empty(t, embed.Fields)
}

func TestLCCEmbed(t *testing.T) {
	m := maplist.Map{Code: "ZFMOOKU", Name: "Mirage"}

	t.Run("image proof", func(t *testing.T) {
		lcc := maplist.Completion{
			Format:    maplist.FORMAT_MAPLIST,
			NoGeraldo: true,
			Users:     []maplist.UserRef{{Name: "alice"}},
			LCC:       &maplist.LCC{Leftover: 12345, Proof: "https://cdn/proof.PNG"},
		}

		embed := NewLCCEmbed(m, lcc, "https://maplist/map/ZFMOOKU", 0)
		assert.Equal(t, "⏰ / 🔴 🎖️ 🪙\nSaveup: "+shared.EMOJIS.CASH+" **12,345**", embed.Description)
		assert.Equal(t, "https://cdn/proof.PNG", embed.Image.URL)
		assert.Empty(t, embed.URL)
		assert.Equal(t, "Player", embed.Fields[0].Name)
		assert.Equal(t, "alice", embed.Fields[0].Value)
	})

	t.Run("video proof", func(t *testing.T) {
		lcc := maplist.Completion{
			Format:      maplist.FORMAT_EXPERTS,
			BlackBorder: true,
			Users:       []maplist.UserRef{{Name: "alice"}, {Name: "bob"}},
			LCC:         &maplist.LCC{Leftover: 50, Proof: "https://youtu.be/abc"},
		}

		embed := NewLCCEmbed(m, lcc, "", 0)
		assert.Nil(t, embed.Image)
		assert.Equal(t, "https://youtu.be/abc", embed.URL)
		assert.True(t, strings.HasPrefix(embed.Description, "😎 / ⚫ 🪙"))
		assert.Equal(t, "Players", embed.Fields[0].Name)
		assert.Equal(t, "- alice\n- bob", embed.Fields[0].Value)
	})
}

func TestR6StartContent(t *testing.T) {
	assert.Empty(t, R6StartContent(maplist.Map{}, ""))
	assert.Equal(t,
		"Round 6 Start for [Mirage](https://maplist/map/X):\nsell everything",
		R6StartContent(maplist.Map{Name: "Mirage", R6Start: lo.ToPtr("sell everything")}, "https://maplist/map/X"),
	)
}

func TestProfileEmbed(t *testing.T) {
	formats := []maplist.Format{
		{ID: 1, Name: "Maplist", Emoji: lo.ToPtr("⏰")},
		{ID: 2, Name: "Maplist (all versions)", Hidden: true},
		{ID: 51, Name: "Expert List"},
	}

	t.Run("with stats", func(t *testing.T) {
		card := ProfileCard{
			DisplayName: "chime",
			Exists:      true,
			Formats:     formats,
			Profile: maplist.Profile{
				AvatarURL: lo.ToPtr("https://x/a.png"),
				ListStats: []maplist.ListStats{
					{FormatID: 51, Stats: maplist.FormatStats{Points: 3, PtsPlacement: 12}},
					{FormatID: 2, Stats: maplist.FormatStats{Points: 99, PtsPlacement: 1}},
					{FormatID: 1, Stats: maplist.FormatStats{Points: 1200.5, PtsPlacement: 2, LCCs: 4, LCCsPlacement: 7}},
				},
			},
			MedalsBannerURL: "https://api/img/medal-banner/b.png?wins=3",
		}

		embed := NewProfileEmbed(card)
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "⏰ Maplist Stats", embed.Fields[0].Name)
		assert.Equal(t, "**Score:** 1,200.50pt 🥈\n- 🪙 4 LCCs (#7)", embed.Fields[0].Value)
		assert.Equal(t, "Expert List Stats", embed.Fields[1].Name)
		assert.Equal(t, "**Score:** 3pt (#12)", embed.Fields[1].Value)

		assert.Equal(t, "https://x/a.png", embed.Thumbnail.URL)
		assert.Equal(t, card.MedalsBannerURL, embed.Image.URL)
		assert.Nil(t, embed.Footer)
	})

	t.Run("empty", func(t *testing.T) {
		embed := NewProfileEmbed(ProfileCard{DisplayName: "nobody", Self: true})

		assert.Equal(t, shared.EMPTY_AVATAR_URL, embed.Thumbnail.URL)
		assert.Nil(t, embed.Image)
		assert.True(t, strings.HasPrefix(embed.Description, EMPTY_PROFILE_TEXT))
		require.NotNil(t, embed.Footer)
		assert.Equal(t, SET_AVATAR_HINT, embed.Footer.Text)
	})
}

func TestCompletionsContent(t *testing.T) {
	assert.Equal(t, "## chime — Completions\n\n"+NO_COMPLETIONS_TEXT, CompletionsContent("chime", nil))

	entries := []maplist.Completion{
		{Map: maplist.MapRef{Code: "A", Name: "Alpha"}, Format: 1, NoGeraldo: true, CurrentLCC: true},
		{Map: maplist.MapRef{Code: "A", Name: "Alpha"}, Format: 51, BlackBorder: true, NoGeraldo: true},
		{Map: maplist.MapRef{Code: "B", Name: "Beta"}, Format: 2},
	}

	lines := strings.Split(CompletionsContent("chime", entries), "\n")
	require.Len(t, lines, 6)

	blank := shared.EMOJIS.BLANK
	assert.Equal(t, "⏰  ~  🎖️ 🪙 🔴  |  ↓     ↓     ↓     ↓", lines[3])
	assert.Equal(t, "😎  ~  "+blank+" "+blank+" ⚫  |  Alpha", lines[4])
	assert.Equal(t, "🕰️  ~  "+blank+" "+blank+" 🔴  |  Beta", lines[5])
}

func TestLeaderboardContent(t *testing.T) {
	entries := []maplist.LeaderboardEntry{
		{User: maplist.UserRef{Name: "alice"}, Score: 1500, Position: 1},
		{User: maplist.UserRef{Name: "bob"}, Score: 12.5, Position: 14},
	}

	lines := strings.Split(LeaderboardContent(entries, "Points"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "|    Points"))
	assert.Equal(t, "  🥇  `alice               `  |  `1,500`", lines[2])
	assert.Equal(t, "`14 ` `bob                 `  |  `12.50`", lines[3])
}

func TestVoteEmbed(t *testing.T) {
	embed := NewMapVoteEmbed("42", "ZFMOOKU", "https://proxy/ZFMOOKU.jpg")
	assert.Equal(t, "<@42> wants you to vote on this map! (Code: `ZFMOOKU`)", embed.Description)
	assert.Equal(t, discordutil.PENDING, embed.Color)

	assert.Equal(t, "<@42> wants you to vote on this map!", NewMapVoteEmbed("42", "", "u").Description)

	assert.Equal(t, discordutil.SUCCESS, VoteResultColor(2))
	assert.Equal(t, discordutil.FAIL, VoteResultColor(-1))
	assert.Equal(t, discordutil.TIE, VoteResultColor(0))
}
