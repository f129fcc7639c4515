package embeds

import (
	"fmt"
	"slices"
	"strings"

	"mlbot/api/maplist"
	"mlbot/shared"
	"mlbot/utils"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

var NewEmbedField = discordutil.NewEmbedField
var AddField = discordutil.AddField

const NO_LCC_TEXT = "-# No LCCs for this map!"
const NO_R6_START_TEXT = "-# No R6 Start info for this map!"
const EMPTY_PROFILE_TEXT = "-# Not much going on here..."
const NO_COMPLETIONS_TEXT = "-# Not much going on here... go play the game!"
const SET_AVATAR_HINT = "You can set a profile picture either through the website or the /oak command"

// Adds an "s" to word when there's more than one of something.
func plural(word string, n int) string {
	if n > 1 {
		return word + "s"
	}

	return word
}

// Creates the overview embed of a list map: difficulty, placement with its worth in points,
// optimal heros, creators and verifiers.
func NewMapEmbed(m maplist.Map, cfg maplist.Config, mapURL string, color int) *discordgo.MessageEmbed {
	var desc strings.Builder
	if len(m.Aliases) > 0 {
		fmt.Fprintf(&desc, "-# Aliases: %s\n", strings.Join(m.Aliases, " - "))
	}

	var parts []string
	if name := shared.DifficultyName(m.Difficulty); name != "" {
		parts = append(parts, shared.DifficultyEmoji(m.Difficulty)+" "+name)
	}
	if m.PlacementCur != -1 && m.PlacementCur != 0 {
		pts := maplist.Points(m.PlacementCur, cfg)
		parts = append(parts, fmt.Sprintf("%s #%d (%spt)", shared.ICONS.CURVER, m.PlacementCur, utils.FormatScore(pts)))
	}
	if len(parts) > 0 {
		desc.WriteString(strings.Join(parts, " / ") + "\n")
	}

	if len(m.OptimalHeros) > 0 {
		heros := lo.Map(m.OptimalHeros, func(h string, _ int) string { return shared.HeroEmoji(h) })
		fmt.Fprintf(&desc, "\n**Optimal Heros**\n# %s\n", strings.Join(heros, " "))
	}

	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       m.Name,
		URL:         mapURL,
		Description: desc.String(),
		Color:       color,
		Author:      &discordgo.MessageEmbedAuthor{Name: m.Code},
	}
	if m.MapPreviewURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: m.MapPreviewURL}
	}

	creators := lo.Map(m.Creators, func(c maplist.Creator, _ int) string {
		if c.Role == nil || *c.Role == "" {
			return "- " + c.Name
		}

		return fmt.Sprintf("- %s *(%s)*", c.Name, *c.Role)
	})
	if len(creators) > 0 {
		AddField(embed, plural("Creator", len(creators)), strings.Join(creators, "\n"), true)
	}

	verifiers := lo.Map(m.Verifications, func(v maplist.Verification, _ int) string {
		if v.Version == nil {
			return "- " + v.Name
		}

		return fmt.Sprintf("- %s *(Current ver)*", v.Name)
	})
	if len(verifiers) > 0 {
		AddField(embed, plural("Verifier", len(verifiers)), strings.Join(verifiers, "\n"), true)
	}

	return embed
}

var proofImageExts = []string{".jpg", ".jpeg", ".webp", ".png"}

// Whether a proof link points straight at an image, in which case it can be embedded.
func IsImageURL(u string) bool {
	lower := strings.ToLower(u)
	return lo.SomeBy(proofImageExts, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// The medals earned by a run, most notable last.
func runMedals(c maplist.Completion) []string {
	medals := []string{lo.Ternary(c.BlackBorder, shared.MEDALS.BLACK_BORDER, shared.MEDALS.WIN)}
	if c.NoGeraldo {
		medals = append(medals, shared.MEDALS.NO_OPT_HERO)
	}

	return append(medals, shared.MEDALS.LCC)
}

// Creates the embed showing a map's Least Cash CHIMPS run. Proofs that are images are shown inline,
// anything else (usually a video) becomes the embed's link.
func NewLCCEmbed(m maplist.Map, lcc maplist.Completion, mapURL string, color int) *discordgo.MessageEmbed {
	var leftover int
	var proof string
	if lcc.LCC != nil {
		leftover, proof = lcc.LCC.Leftover, lcc.LCC.Proof
	}

	embed := &discordgo.MessageEmbed{
		Type:  discordgo.EmbedTypeRich,
		Title: "Least Cash CHIMPS",
		Description: utils.HumanizedSprintf("%s / %s\nSaveup: %s **%d**",
			shared.FormatEmoji(lcc.Format), strings.Join(runMedals(lcc), " "), shared.EMOJIS.CASH, leftover,
		),
		Color:  color,
		Author: &discordgo.MessageEmbedAuthor{Name: m.Name, URL: mapURL},
	}

	if IsImageURL(proof) {
		embed.Image = &discordgo.MessageEmbedImage{URL: proof}
	} else {
		embed.URL = proof
	}

	names := lo.Map(lcc.Users, func(u maplist.UserRef, _ int) string { return u.Name })

	value := strings.Join(names, "")
	if len(names) > 1 {
		value = "- " + strings.Join(names, "\n- ")
	}
	AddField(embed, plural("Player", len(names)), value, false)

	return embed
}

// The content of the round 6 start tab, empty if the map has no start info.
func R6StartContent(m maplist.Map, mapURL string) string {
	if m.R6Start == nil || *m.R6Start == "" {
		return ""
	}

	return fmt.Sprintf("Round 6 Start for [%s](%s):\n%s", m.Name, mapURL, *m.R6Start)
}

// Everything needed to draw a user's profile card.
type ProfileCard struct {
	DisplayName string
	Profile     maplist.Profile
	Formats     []maplist.Format

	// Whether the profile belongs to whoever ran the command.
	Self bool
	// False when the user has no Maplist profile at all.
	Exists bool
	// The banner with medal counts drawn over it, set when the user has any wins.
	MedalsBannerURL string

	Color int
}

func placementSuffix(pos int) string {
	if emj := shared.PlacementEmoji(pos); emj != "" {
		return emj
	}

	return fmt.Sprintf("(#%d)", pos)
}

func statsField(stats maplist.FormatStats) string {
	lines := []string{
		fmt.Sprintf("**Score:** %spt %s", utils.FormatScore(stats.Points), placementSuffix(stats.PtsPlacement)),
	}

	if stats.LCCs > 0 {
		lines = append(lines, fmt.Sprintf("- %s %s LCCs %s",
			shared.MEDALS.LCC, utils.FormatScore(stats.LCCs), placementSuffix(stats.LCCsPlacement),
		))
	}
	if stats.NoGeraldo > 0 {
		lines = append(lines, fmt.Sprintf("- %s %s No Optimal Hero runs %s",
			shared.MEDALS.NO_OPT_HERO, utils.FormatScore(stats.NoGeraldo), placementSuffix(stats.NoGeraldoPlacement),
		))
	}
	if stats.BlackBorder > 0 {
		lines = append(lines, fmt.Sprintf("- %s %s Black Border runs %s",
			shared.MEDALS.BLACK_BORDER, utils.FormatScore(stats.BlackBorder), placementSuffix(stats.BlackBorderPlacement),
		))
	}

	return strings.Join(lines, "\n")
}

// Creates the overview embed of a user's profile, with a field per visible format they have stats in.
func NewProfileEmbed(card ProfileCard) *discordgo.MessageEmbed {
	p := card.Profile

	desc := ""
	if len(p.CreatedMaps) > 0 {
		desc = fmt.Sprintf("- **Maps Created:** %d", len(p.CreatedMaps))
	}

	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       card.DisplayName,
		Description: desc,
		Color:       card.Color,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: lo.FromPtrOr(p.AvatarURL, shared.EMPTY_AVATAR_URL)},
	}

	if card.MedalsBannerURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: card.MedalsBannerURL}
	} else if card.Exists && p.BannerURL != nil && *p.BannerURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: *p.BannerURL}
	}

	stats := slices.Clone(p.ListStats)
	slices.SortFunc(stats, func(a, b maplist.ListStats) int { return a.FormatID - b.FormatID })

	for _, ls := range stats {
		format, ok := lo.Find(card.Formats, func(f maplist.Format) bool { return f.ID == ls.FormatID })
		if !ok || format.Hidden {
			continue
		}

		name := format.Name + " Stats"
		if emj := lo.FromPtr(format.Emoji); emj != "" {
			name = emj + " " + name
		}

		AddField(embed, name, statsField(ls.Stats), true)
	}

	if card.Self && p.AvatarURL == nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: SET_AVATAR_HINT}
	}

	if embed.Description == "" && len(embed.Fields) == 0 {
		embed.Description = EMPTY_PROFILE_TEXT + "\n\n\n\n" + shared.EMOJIS.BLANK
	}

	return embed
}

// Renders one UI page of a user's completions. Consecutive runs on the same map
// point down at the next row instead of repeating the name.
func CompletionsContent(displayName string, entries []maplist.Completion) string {
	title := fmt.Sprintf("## %s — Completions\n", displayName)
	if len(entries) == 0 {
		return title + "\n" + NO_COMPLETIONS_TEXT
	}

	const medalSpots = 3

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("Format ~ Medals   |  Map\n")
	sb.WriteString("—————————  + —————————\n")

	for i, entry := range entries {
		var medals []string
		if entry.Format <= maplist.MAX_LIST_FORMAT && entry.NoGeraldo {
			medals = append(medals, shared.MEDALS.NO_OPT_HERO)
		}
		if entry.CurrentLCC {
			medals = append(medals, shared.MEDALS.LCC)
		}
		medals = append(medals, lo.Ternary(entry.BlackBorder, shared.MEDALS.BLACK_BORDER, shared.MEDALS.WIN))

		for len(medals) < medalSpots {
			medals = append([]string{shared.EMOJIS.BLANK}, medals...)
		}

		mapName := entry.Map.Name
		if i+1 < len(entries) && entry.Map.Code == entries[i+1].Map.Code {
			mapName = "↓     ↓     ↓     ↓"
		}

		fmt.Fprintf(&sb, "%s  ~  %s  |  %s\n", shared.FormatEmoji(entry.Format), strings.Join(medals, " "), mapName)
	}

	return strings.TrimSpace(sb.String())
}

// Renders one UI page of a leaderboard as an aligned table. scoreName heads the score column.
func LeaderboardContent(entries []maplist.LeaderboardEntry, scoreName string) string {
	rows := []string{
		"User                                                   |    " + scoreName,
		"———————————————-   +   —————",
	}

	for _, entry := range entries {
		placement := fmt.Sprintf("`%s`", utils.PadRight(fmt.Sprint(entry.Position), 3))
		if emj := shared.PlacementEmoji(entry.Position); emj != "" {
			placement = "  " + emj + " "
		}

		rows = append(rows, fmt.Sprintf("%s `%s`  |  `%s`",
			placement, utils.PadRight(entry.User.Name, 20), utils.PadRight(utils.FormatScore(entry.Score), 5),
		))
	}

	return strings.Join(rows, "\n")
}

// Creates the embed posted in a vote channel when a moderator calls a vote on a map.
func NewMapVoteEmbed(callerID, mapCode, imageURL string) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("<@%s> wants you to vote on this map!", callerID)
	if mapCode != "" {
		desc += fmt.Sprintf(" (Code: `%s`)", mapCode)
	}

	return &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Description: desc,
		Color:       discordutil.PENDING,
		Image:       &discordgo.MessageEmbedImage{URL: imageURL},
	}
}

// The color a finished vote's embed gets given its ✅ minus ❌ tally.
func VoteResultColor(tally int) int {
	switch {
	case tally > 0:
		return discordutil.SUCCESS
	case tally < 0:
		return discordutil.FAIL
	}

	return discordutil.TIE
}
