package slashcommands

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"mlbot/database"
	"mlbot/utils"
	"mlbot/utils/discordutil"
	"mlbot/utils/pagination"

	"github.com/bwmarrin/discordgo"
)

const (
	USAGE_TOP_COMMANDS = 20
	USAGE_LB_PER_PAGE  = 10
)

const NO_USAGE_TEXT = "No usage recorded."

type UsageCommand struct {
	*Deps
}

func (cmd UsageCommand) Name() string { return "usage" }
func (cmd UsageCommand) Description() string {
	return "Get info on your personal bot usage or view the global usage leaderboard."
}
func (cmd UsageCommand) Module() string { return "Utils" }
func (cmd UsageCommand) Help() string   { return "See how much you, and everyone else, use the bot." }

func (cmd UsageCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		{
			Name:        "self",
			Description: "Output info about your own bot usage statistics.",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
		},
		{
			Name:        "leaderboard",
			Description: "View the bot usage statistics globally via a leaderboard.",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
		},
	}
}

func (cmd UsageCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	if cmd.Usage == nil {
		return discordutil.SendEphemeral(s, i, "Usage is not being recorded right now!")
	}

	author := discordutil.GetInteractionAuthor(i)

	sub, _ := commandOptions(i)
	switch sub {
	case "self":
		usage, err := cmd.Usage.Get(author.ID)
		if err != nil {
			return discordutil.SendEphemeral(s, i, NO_USAGE_TEXT)
		}

		return discordutil.SendReply(s, i, &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{cmd.selfEmbed(author, *usage)},
		})
	case "leaderboard":
		ranks := cmd.ranking()
		if len(ranks) == 0 {
			return discordutil.SendEphemeral(s, i, NO_USAGE_TEXT)
		}

		pager, state := pagination.NewStatic(ranks, USAGE_LB_PER_PAGE)
		paginator := discordutil.NewPaginator(cmd.Views, discordutil.PaginatorConfig[usageRank]{
			Owner:  author.ID,
			Pager:  pager,
			Render: usageLeaderboardPage,
		}, state)

		return discordutil.Reply(s, i, cmd.Views, paginator.Rendered(ranks[:min(len(ranks), USAGE_LB_PER_PAGE)]), false)
	}

	return fmt.Errorf("unknown usage subcommand %q", sub)
}

func (cmd UsageCommand) selfEmbed(author *discordgo.User, usage database.UserUsage) *discordgo.MessageEmbed {
	stats := usage.CommandStats()

	mostUsed := make([]string, 0, USAGE_TOP_COMMANDS)
	for _, stat := range stats[:min(USAGE_TOP_COMMANDS, len(stats))] {
		mostUsed = append(mostUsed, utils.HumanizedSprintf("/%s - `%d` times (last %s)",
			stat.Name, stat.Count, utils.DiscordTimestamp(time.Unix(stat.Last.Timestamp, 0), "R"),
		))
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Bot Usage Statistics | `%s`", author.Username),
		Fields: []*discordgo.MessageEmbedField{
			discordutil.NewEmbedField("Total Commands Executed", utils.HumanizedSprintf("`%d`", usage.TotalCommandsExecuted()), false),
			discordutil.NewEmbedField("Top Commands", strings.Join(mostUsed, "\n"), false),
		},
		Color: discordutil.WHITE,
	}
}

type usageRank struct {
	UserID string
	Total  int
}

// Every user with recorded usage, most commands first.
func (cmd UsageCommand) ranking() []usageRank {
	var ranks []usageRank
	cmd.Usage.ForEach(func(id string, u database.UserUsage) {
		if total := u.TotalCommandsExecuted(); total > 0 {
			ranks = append(ranks, usageRank{UserID: id, Total: total})
		}
	})

	slices.SortFunc(ranks, func(a, b usageRank) int {
		return cmp.Or(b.Total-a.Total, cmp.Compare(a.UserID, b.UserID))
	})

	return ranks
}

func usageLeaderboardPage(ranks []usageRank) discordutil.Page {
	lines := make([]string, 0, len(ranks))
	for _, r := range ranks {
		lines = append(lines, utils.HumanizedSprintf("<@%s> - `%d` commands", r.UserID, r.Total))
	}

	return discordutil.Page{Embeds: []*discordgo.MessageEmbed{{
		Title:       "Bot Usage Leaderboard",
		Description: strings.Join(lines, "\n"),
		Color:       discordutil.WHITE,
	}}}
}
