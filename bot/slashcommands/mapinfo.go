package slashcommands

import (
	"context"
	"strings"

	"mlbot/api/maplist"
	"mlbot/shared/embeds"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
)

// The tabs of a map info message, in the order they are listed.
const (
	MAP_TAB_OVERVIEW = iota
	MAP_TAB_LCC
	MAP_TAB_R6_START
)

const NK_PREVIEW_PREFIX = "https://data.ninjakiwi.com"

var mapInfoCommands = [...]struct {
	name, description, help string
}{
	MAP_TAB_OVERVIEW: {
		"map", "Information about a map",
		"Overview of list map.\nYou can pass as a parameter the code, the Maplist position, " +
			"the map name, or an alias. *This works for all commands that ask for a map.*",
	},
	MAP_TAB_LCC: {
		"lcc", "Information about a map's LCC run(s)",
		"Get the current LCC for a map.",
	},
	MAP_TAB_R6_START: {
		"start", "Information about a map's Round 6 start, if any",
		"Small guide on how to start on a map (if any)",
	},
}

// One of /map, /lcc or /start. They all show the same tabs, opened on a different one.
type MapInfoCommand struct {
	*Deps
	tab int
}

func NewMapInfoCommand(d *Deps, tab int) MapInfoCommand {
	return MapInfoCommand{Deps: d, tab: tab}
}

func (cmd MapInfoCommand) Name() string        { return mapInfoCommands[cmd.tab].name }
func (cmd MapInfoCommand) Description() string { return mapInfoCommands[cmd.tab].description }
func (cmd MapInfoCommand) Module() string      { return "MapInfo" }
func (cmd MapInfoCommand) Help() string        { return mapInfoCommands[cmd.tab].help }

func (cmd MapInfoCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		discordutil.RequiredStringOption("map", "The map's code, placement, name or alias", 1, 100),
		discordutil.BoolOption("hide", "Only show the map to yourself"),
	}
}

func (cmd MapInfoCommand) Execute(ctx context.Context, s Session, i *discordgo.Interaction) error {
	_, opts := commandOptions(i)

	if err := discordutil.DeferReply(s, i, opts.Bool("hide")); err != nil {
		return err
	}

	m, cfg, err := cmd.Maplist.MapWithConfig(ctx, opts.String("map", ""))
	if err != nil {
		return err
	}

	author := discordutil.GetInteractionAuthor(i)
	tabs := discordutil.NewTabSelector(cmd.Views, author.ID, "Other map info", cmd.mapTabs(m, cfg), cmd.tab)

	r, err := tabs.Rendered(ctx)
	if err != nil {
		return err
	}

	return discordutil.Edit(s, i, cmd.Views, r)
}

// Builds the three tabs of a map. They are cheap, so all of them are rendered up front.
func (cmd MapInfoCommand) mapTabs(m maplist.Map, cfg maplist.Config) []discordutil.Tab {
	if strings.HasPrefix(m.MapPreviewURL, NK_PREVIEW_PREFIX) {
		m.MapPreviewURL = cmd.Config.PreviewURL(m.Code)
	}

	mapURL := cmd.Config.MapURL(m.Code)
	color := cmd.Config.Bot.EmbedColor

	lcc := discordutil.NewStatic(embeds.NO_LCC_TEXT)
	if best := m.BestLCC(); best != nil {
		lcc = discordutil.NewStatic("", embeds.NewLCCEmbed(m, *best, mapURL, color))
	}

	r6 := discordutil.NewStatic(embeds.NO_R6_START_TEXT)
	if content := embeds.R6StartContent(m, mapURL); content != "" {
		r6 = discordutil.NewStatic(content)
	}

	return []discordutil.Tab{
		MAP_TAB_OVERVIEW: {Emoji: "🗺️", Label: "Map Overview", Message: discordutil.NewStatic("", embeds.NewMapEmbed(m, cfg, mapURL, color))},
		MAP_TAB_LCC:      {Emoji: "🪙", Label: "Least Cash CHIMPS", Message: lcc},
		MAP_TAB_R6_START: {Emoji: "🎯", Label: "Round 6 Start", Message: r6},
	}
}
