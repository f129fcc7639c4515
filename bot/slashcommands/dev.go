package slashcommands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"mlbot/utils"
	"mlbot/utils/config"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const (
	NOT_A_DEV_TEXT  = "You are not a developer silly."
	NO_TASKS_TEXT   = "No tasks are scheduled."
	NO_GUILD_TEXT   = "There is no server to sync to here!"
	NO_MAPLIST_TEXT = "No Maplist server is configured!"
)

// Where /dev sync sends the commands.
const (
	SYNC_GLOBAL  = "globally"
	SYNC_HERE    = "here"
	SYNC_MAPLIST = "maplist"
)

// A periodic job run by the bot and when it runs next. Next is zero while the scheduler is stopped.
type ScheduledTask struct {
	Name     string
	Schedule string
	Next     time.Time
	Prev     time.Time
}

type TaskLister interface {
	ScheduledTasks() []ScheduledTask
}

type DevCommand struct {
	*Deps
	cmds Commands
}

func (cmd DevCommand) Name() string { return "dev" }
func (cmd DevCommand) Description() string {
	return "Commands for bot developers only."
}

func (cmd DevCommand) Options() AppCommandOpts {
	where := discordutil.StringOption("where", "Where to sync the commands to. Globally if omitted.", nil, 0)
	where.Choices = discordutil.StringChoices(SYNC_GLOBAL, SYNC_HERE, SYNC_MAPLIST)

	return AppCommandOpts{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "sync",
			Description: "Overwrites the slash commands Discord knows about with the current ones.",
			Options:     AppCommandOpts{where},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "tasks",
			Description: "Lists the periodic tasks of the bot and when they run next.",
		},
	}
}

// Co-owners from the config, plus whoever DEV_ID names.
func (cmd DevCommand) isDev(userID string) bool {
	if slices.Contains(cmd.Config.Bot.CoOwnerIDs, userID) {
		return true
	}

	devID, err := config.GetEnviroVar(config.ENV_DEV_ID)
	return err == nil && devID == userID
}

func (cmd DevCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	author := discordutil.GetInteractionAuthor(i)
	if author == nil || !cmd.isDev(author.ID) {
		return discordutil.SendEphemeral(s, i, NOT_A_DEV_TEXT)
	}

	sub, opts := commandOptions(i)
	switch sub {
	case "sync":
		return cmd.sync(s, i, opts.String("where", SYNC_GLOBAL))
	case "tasks":
		var tasks []ScheduledTask
		if cmd.Tasks != nil {
			tasks = cmd.Tasks.ScheduledTasks()
		}

		return discordutil.SendEphemeral(s, i, TasksText(tasks))
	}

	return fmt.Errorf("unknown dev subcommand %q", sub)
}

func (cmd DevCommand) sync(s Session, i *discordgo.Interaction, where string) error {
	syncer, ok := s.(CommandSyncer)
	if !ok {
		return fmt.Errorf("session %T cannot sync commands", s)
	}

	var guildID, whereStr string
	switch where {
	case SYNC_HERE:
		if i.GuildID == "" {
			return discordutil.SendEphemeral(s, i, NO_GUILD_TEXT)
		}
		guildID, whereStr = i.GuildID, "here"
	case SYNC_MAPLIST:
		if cmd.Config.Maplist.GuildID == "" {
			return discordutil.SendEphemeral(s, i, NO_MAPLIST_TEXT)
		}
		guildID, whereStr = cmd.Config.Maplist.GuildID, "in the Maplist"
	default:
		whereStr = "globally"
	}

	if err := discordutil.DeferReply(s, i, true); err != nil {
		return err
	}

	appID := lo.CoalesceOrEmpty(cmd.Config.Bot.AppID, i.AppID)
	n, err := SyncGuild(syncer, appID, cmd.Deps, cmd.cmds, guildID)
	if err != nil {
		return err
	}

	_, err = discordutil.EditReply(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Synced %d commands (%s).", n, whereStr),
	})

	return err
}

// One line per task, green while it is scheduled to run again.
func TasksText(tasks []ScheduledTask) string {
	if len(tasks) == 0 {
		return NO_TASKS_TEXT
	}

	var sb strings.Builder
	sb.WriteString("**__Bot tasks:__**\n")
	for _, t := range tasks {
		if t.Next.IsZero() {
			fmt.Fprintf(&sb, "- 🔴 **%s** `%s` not running\n", t.Name, t.Schedule)
			continue
		}

		fmt.Fprintf(&sb, "- 🟢 **%s** `%s` next %s\n", t.Name, t.Schedule, utils.DiscordTimestamp(t.Next, "R"))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
