package shared

import "mlbot/api/maplist"

const NK_OAK_SUPPORT_URL = "https://support.ninjakiwi.com/hc/en-us/articles/13438499873937"

const LIST_RULES_URL = "https://discord.com/channels/1162188507800944761/1162193272320569485/1272011602228678747"
const EXPERT_RULES_URL = "https://discord.com/channels/1162188507800944761/1250611476444479631/1253260417292308552"

// Shown for users that haven't linked their OAK.
const EMPTY_AVATAR_URL = "https://static-api.nkstatic.com/appdocs/4/assets/opendata/db32af61df5646951a18c60fe0013a31_ProfileAvatar01.png"
const EMPTY_BANNER_URL = "https://static-api.nkstatic.com/appdocs/4/assets/opendata/bbd8e1412f656b91db7df7aabbc1598b_TeamsBannerDeafult.png"

type Emoji = string

var MEDALS = struct {
	WIN          Emoji
	BLACK_BORDER Emoji
	NO_OPT_HERO  Emoji
	LCC          Emoji
}{
	WIN:          "🔴",
	BLACK_BORDER: "⚫",
	NO_OPT_HERO:  "🎖️",
	LCC:          "🪙",
}

var ICONS = struct {
	CASUAL  Emoji
	MEDIUM  Emoji
	HARD    Emoji
	TRUE    Emoji
	EXTREME Emoji
	PACKS   Emoji
	CURVER  Emoji
	ALLVER  Emoji
	EXPERTS Emoji
}{
	CASUAL:  "🙂",
	MEDIUM:  "😌",
	HARD:    "😎",
	TRUE:    "😈",
	EXTREME: "🔥",
	PACKS:   "📦",
	CURVER:  "⏰",
	ALLVER:  "🕰️",
	EXPERTS: "😎",
}

var PLACEMENTS = [...]Emoji{"🥇", "🥈", "🥉"}

var EMOJIS = struct {
	CASH  Emoji
	BLANK Emoji
	CHECK Emoji
	CROSS Emoji
}{
	CASH:  "<a:cash:1148694623192105010>",
	BLANK: "<:_:1121392589204094976>",
	CHECK: "✅",
	CROSS: "❌",
}

// In-game hero select icons.
var HEROS = map[string]Emoji{
	"quincy":    "🏹",
	"gwen":      "🔥",
	"obyn":      "🌳",
	"striker":   "💣",
	"churchill": "🪖",
	"ben":       "💻",
	"ezili":     "🐸",
	"pat":       "🐻‍❄️",
	"adora":     "☀️",
	"brickell":  "⚓",
	"etienne":   "🛸",
	"sauda":     "⚔️",
	"psi":       "🧠",
	"geraldo":   "🎒",
	"corvus":    "🐦‍⬛",
	"rosalia":   "🔧",
}

var DIFFICULTIES = [...]string{"Casual Expert", "Medium Expert", "Hard Expert", "True Expert", "Extreme Expert"}

// The difficulty icon for an expert difficulty index, empty if out of range.
func DifficultyEmoji(idx int) Emoji {
	icons := [...]Emoji{ICONS.CASUAL, ICONS.MEDIUM, ICONS.HARD, ICONS.TRUE, ICONS.EXTREME}
	if idx < 0 || idx >= len(icons) {
		return ""
	}

	return icons[idx]
}

func DifficultyName(idx int) string {
	if idx < 0 || idx >= len(DIFFICULTIES) {
		return ""
	}

	return DIFFICULTIES[idx]
}

// The icon for a format id, empty if it has none.
func FormatEmoji(format int) Emoji {
	switch format {
	case maplist.FORMAT_MAPLIST:
		return ICONS.CURVER
	case maplist.FORMAT_MAPLIST_ALL:
		return ICONS.ALLVER
	case maplist.FORMAT_EXPERTS:
		return ICONS.EXPERTS
	}

	return ""
}

// Falls back to the hero's name when there's no icon for it.
func HeroEmoji(hero string) Emoji {
	if emj, ok := HEROS[hero]; ok {
		return emj
	}

	return hero
}

// The medal icon for a 1-based leaderboard position, empty past the podium.
func PlacementEmoji(pos int) Emoji {
	if pos < 1 || pos > len(PLACEMENTS) {
		return ""
	}

	return PLACEMENTS[pos-1]
}
