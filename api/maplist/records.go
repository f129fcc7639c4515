package maplist

// Game format ids as used by the Maplist API.
const (
	FORMAT_MAPLIST     = 1
	FORMAT_MAPLIST_ALL = 2
	FORMAT_EXPERTS     = 51
)

// The highest format id still belonging to the Maplist (as opposed to the Expert List).
const MAX_LIST_FORMAT = 50

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Creator struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Role *string `json:"role"`
}

type Verification struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Version *float64 `json:"version"` // nil when the verification predates the current game version
}

type MapRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type LCC struct {
	Leftover int    `json:"leftover"`
	Proof    string `json:"proof"`
}

// A run on a map, as listed on a map's LCCs or in a user's completions.
type Completion struct {
	ID          int       `json:"id"`
	Map         MapRef    `json:"map"`
	Users       []UserRef `json:"users"`
	Format      int       `json:"format"`
	BlackBorder bool      `json:"black_border"`
	NoGeraldo   bool      `json:"no_geraldo"`
	CurrentLCC  bool      `json:"current_lcc"`
	LCC         *LCC      `json:"lcc"`
}

type Map struct {
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Aliases       []string       `json:"aliases"`
	Difficulty    int            `json:"difficulty"`    // -1 if not an expert map
	PlacementCur  int            `json:"placement_cur"` // -1 if not on the current list
	PlacementAll  int            `json:"placement_all"`
	OptimalHeros  []string       `json:"optimal_heros"`
	MapPreviewURL string         `json:"map_preview_url"`
	R6Start       *string        `json:"r6_start"`
	Creators      []Creator      `json:"creators"`
	Verifications []Verification `json:"verifications"`
	LCCs          []Completion   `json:"lccs"`
}

// The LCC with the most cash left over, or nil if the map has none.
func (m Map) BestLCC() *Completion {
	var best *Completion
	for i := range m.LCCs {
		c := &m.LCCs[i]
		if c.LCC == nil {
			continue
		}
		if best == nil || c.LCC.Leftover > best.LCC.Leftover {
			best = c
		}
	}

	return best
}

type ConfigVar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Maplist configuration variables keyed by name, e.g. "map_count" or "formula_slope".
type Config map[string]float64

type Format struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Emoji  *string `json:"emoji"`
	Hidden bool    `json:"hidden"`
}

type FormatStats struct {
	Points               float64 `json:"points"`
	PtsPlacement         int     `json:"pts_placement"`
	LCCs                 float64 `json:"lccs"`
	LCCsPlacement        int     `json:"lccs_placement"`
	NoGeraldo            float64 `json:"no_geraldo"`
	NoGeraldoPlacement   int     `json:"no_geraldo_placement"`
	BlackBorder          float64 `json:"black_border"`
	BlackBorderPlacement int     `json:"black_border_placement"`
}

type ListStats struct {
	FormatID int         `json:"format_id"`
	Stats    FormatStats `json:"stats"`
}

type Medals struct {
	Wins        int `json:"wins"`
	BlackBorder int `json:"black_border"`
	NoGeraldo   int `json:"no_geraldo"`
	LCCs        int `json:"lccs"`
}

type Profile struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	OAK          *string     `json:"oak"`
	HasSeenPopup bool        `json:"has_seen_popup"`
	AvatarURL    *string     `json:"avatarURL"`
	BannerURL    *string     `json:"bannerURL"`
	ListStats    []ListStats `json:"list_stats"`
	CreatedMaps  []MapRef    `json:"created_maps"`
	Medals       Medals      `json:"medals"`
}

type LeaderboardEntry struct {
	User     UserRef `json:"user"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

type LeaderboardPage struct {
	Total   int                `json:"total"`
	Pages   int                `json:"pages"`
	Entries []LeaderboardEntry `json:"entries"`
}

type CompletionsPage struct {
	Total       int          `json:"total"`
	Pages       int          `json:"pages"`
	Completions []Completion `json:"completions"`
}
