package slashcommands

import (
	"context"
	"fmt"
	"time"

	"mlbot/api/maplist"
	"mlbot/shared/embeds"
	"mlbot/utils/discordutil"
	"mlbot/utils/pagination"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const (
	LB_PER_PAGE         = 20
	LB_PER_BACKEND_PAGE = 50
	LB_TIMEOUT          = 10 * time.Minute
)

const NO_LB_ENTRIES_TEXT = "-# No entries on this leaderboard yet!"

type listFormat struct {
	Name string
	ID   int
}

// The list formats users can pick from, by the name they are offered as.
var listFormats = []listFormat{
	{"Maplist", maplist.FORMAT_MAPLIST},
	{"Expert List", maplist.FORMAT_EXPERTS},
}

func formatByName(name string) listFormat {
	f, ok := lo.Find(listFormats, func(f listFormat) bool { return f.Name == name })
	if !ok {
		return listFormats[0]
	}

	return f
}

func formatChoices() []*discordgo.ApplicationCommandOptionChoice {
	return discordutil.StringChoices(lo.Map(listFormats, func(f listFormat, _ int) string { return f.Name })...)
}

func leaderboardValueByName(name string) (maplist.LeaderboardValue, string) {
	for _, v := range maplist.LeaderboardValueNames {
		if v.Name == name {
			return v.Value, v.Name
		}
	}

	first := maplist.LeaderboardValueNames[0]
	return first.Value, first.Name
}

type LeaderboardCommand struct {
	*Deps
}

func (cmd LeaderboardCommand) Name() string { return "leaderboard" }
func (cmd LeaderboardCommand) Description() string {
	return "Get the Maplist leaderboard"
}

func (cmd LeaderboardCommand) Module() string { return "Leaderboard" }
func (cmd LeaderboardCommand) Help() string {
	return "Get the Maplist leaderboard. You can choose format and page."
}

func (cmd LeaderboardCommand) Options() AppCommandOpts {
	formatOpt := discordutil.StringOption("game_format", "The list to rank players on", nil, 0)
	formatOpt.Choices = formatChoices()

	typeOpt := discordutil.StringOption("lb_type", "The type of leaderboard points", nil, 0)
	typeOpt.Choices = make([]*discordgo.ApplicationCommandOptionChoice, 0, len(maplist.LeaderboardValueNames))
	for _, v := range maplist.LeaderboardValueNames {
		typeOpt.Choices = append(typeOpt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: v.Name, Value: v.Name})
	}

	return AppCommandOpts{
		discordutil.IntegerOption("page", "The page to start on"),
		formatOpt,
		typeOpt,
		discordutil.BoolOption("hide", "Only show the leaderboard to yourself"),
	}
}

func (cmd LeaderboardCommand) Execute(ctx context.Context, s Session, i *discordgo.Interaction) error {
	_, opts := commandOptions(i)

	page := opts.Int("page", 1)
	if page <= 0 {
		return discordutil.SendEphemeral(s, i, "You can't have a negative page!")
	}

	if err := discordutil.DeferReply(s, i, opts.Bool("hide")); err != nil {
		return err
	}

	format := formatByName(opts.String("game_format", "")).ID
	value, valueName := leaderboardValueByName(opts.String("lb_type", ""))

	pager := pagination.Pager[maplist.LeaderboardEntry]{
		PerPage:        LB_PER_PAGE,
		PerBackendPage: LB_PER_BACKEND_PAGE,
		Fetch:          pagination.FetchEach(cmd.Maplist.LeaderboardPages(format, value)),
	}

	entries, state, err := pager.Start(ctx, page)
	if err != nil {
		return err
	}

	if state.Cache.Total() <= 0 {
		_, err := discordutil.EditReply(s, i, &discordgo.InteractionResponseData{Content: NO_LB_ENTRIES_TEXT})
		return err
	}
	if len(entries) == 0 {
		_, err := discordutil.EditReply(s, i, &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("This leaderboard only has %d pages!", state.TotalPages),
		})
		return err
	}

	author := discordutil.GetInteractionAuthor(i)
	paginator := discordutil.NewPaginator(cmd.Views, discordutil.PaginatorConfig[maplist.LeaderboardEntry]{
		Owner:   author.ID,
		Timeout: LB_TIMEOUT,
		Pager:   pager,
		Render: func(entries []maplist.LeaderboardEntry) discordutil.Page {
			return discordutil.Page{Content: embeds.LeaderboardContent(entries, valueName)}
		},
	}, state)

	return discordutil.Edit(s, i, cmd.Views, paginator.Rendered(entries))
}
