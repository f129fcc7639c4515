package slashcommands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mlbot/api/maplist"
	"mlbot/api/ninjakiwi"
	"mlbot/bot/votes"
	"mlbot/database"
	"mlbot/database/store"
	"mlbot/utils/config"
	"mlbot/utils/discordutil"
	"mlbot/utils/requests"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// 0 for Guild, 1 for User
var integrationTypes = []discordgo.ApplicationIntegrationType{
	discordgo.ApplicationIntegrationGuildInstall,
}

// 0 for Guilds, 2 for DMs, 3 for Private Channels
var contexts = []discordgo.InteractionContextType{
	discordgo.InteractionContextGuild,
	discordgo.InteractionContextBotDM,
}

// The part of *discordgo.Session commands talk to.
type Session interface {
	discordutil.InteractionSession
	votes.Session
	InteractionResponseDelete(i *discordgo.Interaction, options ...discordgo.RequestOption) error
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	ChannelMessagePin(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Everything commands share, built once on startup.
type Deps struct {
	Config    *config.Config
	Maplist   *maplist.Client
	NinjaKiwi *ninjakiwi.Client
	Requests  *requests.Client
	Views     *discordutil.Registry
	Votes     *votes.Tracker
	Usage     *store.Store[database.UserUsage] // May be nil, then nothing is recorded.
	Tasks     TaskLister                       // May be nil before the scheduler exists.
	Started   time.Time

	cmdIDs   map[string]string
	cmdIDsMu sync.RWMutex
}

// The ID Discord gave the command when it was last synced, if known.
func (d *Deps) CommandID(name string) (string, bool) {
	d.cmdIDsMu.RLock()
	defer d.cmdIDsMu.RUnlock()

	id, ok := d.cmdIDs[name]
	return id, ok
}

func (d *Deps) setCommandIDs(cmds []*discordgo.ApplicationCommand) {
	d.cmdIDsMu.Lock()
	defer d.cmdIDsMu.Unlock()

	if d.cmdIDs == nil {
		d.cmdIDs = make(map[string]string, len(cmds))
	}
	for _, c := range cmds {
		d.cmdIDs[c.Name] = c.ID
	}
}

// A clickable mention of a command, falling back to plain text before commands are synced.
func (d *Deps) CommandMention(name string) string {
	root := name
	for i, r := range name {
		if r == ' ' {
			root = name[:i]
			break
		}
	}

	if id, ok := d.CommandID(root); ok {
		return fmt.Sprintf("</%s:%s>", name, id)
	}

	return "`/" + name + "`"
}

type AppCommandOpts = []*discordgo.ApplicationCommandOption
type SlashCommand interface {
	Name() string
	Description() string
	Options() AppCommandOpts
	Execute(ctx context.Context, s Session, i *discordgo.Interaction) error
}

// Commands only registered in one guild rather than globally.
type GuildCommand interface {
	SlashCommand
	GuildID() string
}

// Commands listed by /help under a module.
type Documented interface {
	Module() string
	Help() string
}

func ToApplicationCommand(cmd SlashCommand) *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Name:        cmd.Name(),
		Description: cmd.Description(),
		Options:     cmd.Options(),
		Type:        discordgo.ChatApplicationCommand,
	}

	if _, ok := cmd.(GuildCommand); !ok {
		ac.IntegrationTypes = &integrationTypes
		ac.Contexts = &contexts
	}

	return ac
}

// Every command the bot serves, keyed by name.
type Commands map[string]SlashCommand

func (c Commands) Register(cmd SlashCommand) {
	if _, exists := c[cmd.Name()]; exists {
		log.WithField("command", cmd.Name()).Warn("command is already registered")
		return
	}

	c[cmd.Name()] = cmd
}

func All(d *Deps) Commands {
	cmds := Commands{}
	cmds.Register(LeaderboardCommand{d})
	cmds.Register(NewMapInfoCommand(d, MAP_TAB_OVERVIEW))
	cmds.Register(NewMapInfoCommand(d, MAP_TAB_LCC))
	cmds.Register(NewMapInfoCommand(d, MAP_TAB_R6_START))
	cmds.Register(ProfileCommand{d})
	cmds.Register(OakCommand{d})
	cmds.Register(SubmitCommand{d})
	cmds.Register(MapVoteCommand{d})
	cmds.Register(HelpCommand{d, cmds})
	cmds.Register(GithubCommand{d})
	cmds.Register(InviteCommand{d})
	cmds.Register(InfoCommand{d})
	cmds.Register(PingCommand{})
	cmds.Register(UsageCommand{d})
	cmds.Register(DevCommand{d, cmds})

	return cmds
}

// The subset of *discordgo.Session needed to register commands.
type CommandSyncer interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// The application commands of cmds grouped by the guild they are registered in. Global ones are under "".
func byGuild(cmds Commands) map[string][]*discordgo.ApplicationCommand {
	out := map[string][]*discordgo.ApplicationCommand{"": {}}
	for _, cmd := range cmds {
		guildID := ""
		if gc, ok := cmd.(GuildCommand); ok {
			guildID = gc.GuildID()
		}

		out[guildID] = append(out[guildID], ToApplicationCommand(cmd))
	}

	return out
}

// Replaces the remote commands with cmds, global ones and per guild ones separately.
// When overwrite is false, nothing is changed and only the IDs of the existing commands are fetched.
func SyncWithRemote(s CommandSyncer, appID string, d *Deps, cmds Commands, overwrite bool) error {
	for guildID, acs := range byGuild(cmds) {
		var remote []*discordgo.ApplicationCommand
		var err error
		if overwrite {
			remote, err = s.ApplicationCommandBulkOverwrite(appID, guildID, acs)
		} else {
			remote, err = s.ApplicationCommands(appID, guildID)
		}
		if err != nil {
			return fmt.Errorf("syncing commands of guild %q: %w", guildID, err)
		}

		d.setCommandIDs(remote)
		log.WithFields(log.Fields{"guild": guildID, "commands": len(remote), "overwrite": overwrite}).Info("synced slash commands")
	}

	return nil
}

// Overwrites the remote commands of a single guild, or the global ones when guildID is empty,
// with those of cmds registered there. A guild without any ends up with no commands.
//
// Returns how many commands the guild has afterwards.
func SyncGuild(s CommandSyncer, appID string, d *Deps, cmds Commands, guildID string) (int, error) {
	acs := byGuild(cmds)[guildID]
	if acs == nil {
		acs = []*discordgo.ApplicationCommand{}
	}

	remote, err := s.ApplicationCommandBulkOverwrite(appID, guildID, acs)
	if err != nil {
		return 0, fmt.Errorf("syncing commands of guild %q: %w", guildID, err)
	}

	d.setCommandIDs(remote)
	log.WithFields(log.Fields{"guild": guildID, "commands": len(remote)}).Info("synced slash commands on request")

	return len(remote), nil
}
