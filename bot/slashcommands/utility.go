package slashcommands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"mlbot/utils"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const INVITE_PERMISSIONS = discordgo.PermissionEmbedLinks |
	discordgo.PermissionAttachFiles |
	discordgo.PermissionUseExternalEmojis |
	discordgo.PermissionAddReactions

const NO_MODULE_HELP_TEXT = "No help message written for this module! Yell at the maintainer."

type HelpCommand struct {
	*Deps
	cmds Commands
}

func (cmd HelpCommand) Name() string        { return "help" }
func (cmd HelpCommand) Description() string { return "Get info about the bot's commands." }

func (cmd HelpCommand) Options() AppCommandOpts {
	module := discordutil.StringOption("module", "The module to get info for.", nil, 50)
	module.Choices = discordutil.StringChoices(cmd.Modules()...)

	return AppCommandOpts{module}
}

// Names of every module with at least one documented command, sorted.
func (cmd HelpCommand) Modules() []string {
	modules := lo.Uniq(lo.FilterMap(lo.Values(cmd.cmds), func(c SlashCommand, _ int) (string, bool) {
		doc, ok := c.(Documented)
		if !ok {
			return "", false
		}

		return doc.Module(), true
	}))
	slices.Sort(modules)

	return modules
}

func (cmd HelpCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	_, opts := commandOptions(i)
	return discordutil.SendEphemeral(s, i, cmd.HelpText(opts.String("module", "")))
}

// What /help answers for module, the module list when it is empty.
func (cmd HelpCommand) HelpText(module string) string {
	help := cmd.CommandMention(cmd.Name())

	if module == "" {
		return "This bot has many features, organized into \"modules\"! " +
			"If you want info about a specific module, pass its name through the `module` " +
			fmt.Sprintf("parameter the next time you use %s!\n", help) +
			"*Available modules:*\n- `" + strings.Join(cmd.Modules(), "`\n- `") + "`"
	}

	name, ok := lo.Find(cmd.Modules(), func(m string) bool { return strings.EqualFold(m, module) })
	if !ok {
		return fmt.Sprintf("No module named `%s`! Please use %s with no parameters "+
			"to see which modules are available!", strings.ToLower(module), help)
	}

	return cmd.moduleHelp(name)
}

func (cmd HelpCommand) moduleHelp(module string) string {
	names := lo.Keys(cmd.cmds)
	slices.Sort(names)

	var entries []string
	for _, n := range names {
		doc, ok := cmd.cmds[n].(Documented)
		if !ok || doc.Module() != module || doc.Help() == "" {
			continue
		}

		entries = append(entries, fmt.Sprintf("🔸 %s\n%s", cmd.mentions(cmd.cmds[n]), doc.Help()))
	}

	if len(entries) == 0 {
		return NO_MODULE_HELP_TEXT
	}

	return strings.Join(entries, "\n\n")
}

// Mentions of a command, one per subcommand if it has any.
func (cmd HelpCommand) mentions(c SlashCommand) string {
	subs := lo.FilterMap(c.Options(), func(o *discordgo.ApplicationCommandOption, _ int) (string, bool) {
		return cmd.CommandMention(c.Name() + " " + o.Name), o.Type == discordgo.ApplicationCommandOptionSubCommand
	})
	if len(subs) == 0 {
		return cmd.CommandMention(c.Name())
	}

	return strings.Join(subs, " ")
}

type GithubCommand struct {
	*Deps
}

func (cmd GithubCommand) Name() string            { return "github" }
func (cmd GithubCommand) Description() string     { return "Get the bot's repo" }
func (cmd GithubCommand) Options() AppCommandOpts { return nil }

func (cmd GithubCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	repo := cmd.Config.Bot.GithubRepo
	if repo == "" {
		return discordutil.SendEphemeral(s, i, "This bot's code isn't public!")
	}

	return discordutil.SendReply(s, i, &discordgo.InteractionResponseData{Content: repo})
}

type InviteCommand struct {
	*Deps
}

func (cmd InviteCommand) Name() string            { return "invite" }
func (cmd InviteCommand) Description() string     { return fmt.Sprintf("Invite %s to your server!", cmd.Config.Bot.Name) }
func (cmd InviteCommand) Options() AppCommandOpts { return nil }
func (cmd InviteCommand) Module() string          { return "Utils" }
func (cmd InviteCommand) Help() string            { return "Invite the bot to your server!" }

func InviteURL(appID string) string {
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot&integration_type=0",
		appID, INVITE_PERMISSIONS,
	)
}

func (cmd InviteCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	appID := lo.CoalesceOrEmpty(cmd.Config.Bot.AppID, i.AppID)

	return discordutil.SendReply(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Wanna invite me to your server? Use [this invite link](%s)!", InviteURL(appID)),
	})
}

type InfoCommand struct {
	*Deps
}

func (cmd InfoCommand) Name() string            { return "info" }
func (cmd InfoCommand) Description() string     { return "General information about the bot." }
func (cmd InfoCommand) Options() AppCommandOpts { return nil }
func (cmd InfoCommand) Module() string          { return "Utils" }
func (cmd InfoCommand) Help() string            { return "General info about the bot." }

func (cmd InfoCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	return discordutil.SendReply(s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{cmd.Embed()},
	})
}

func (cmd InfoCommand) Embed() *discordgo.MessageEmbed {
	bot := cmd.Config.Bot

	desc := fmt.Sprintf("- Version: **__%s__**\n- Last Restart: %s (%s)\n",
		bot.Version, utils.DiscordTimestamp(cmd.Started, ""), utils.DiscordTimestamp(cmd.Started, "R"),
	)
	if bot.GithubRepo != "" {
		desc += fmt.Sprintf("Found a bug? Yell at the maintainer or make [an issue on Github](%s)!", bot.GithubRepo)
	}

	return &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       bot.Name,
		Description: desc,
		Color:       bot.EmbedColor,
	}
}
