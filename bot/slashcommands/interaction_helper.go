package slashcommands

import (
	"mlbot/api/maplist"

	"github.com/bwmarrin/discordgo"
)

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// The options of a slash command, or those of its subcommand if one was used.
func commandOptions(i *discordgo.Interaction) (sub string, opts optionMap) {
	data := i.ApplicationCommandData()
	list := data.Options

	if len(list) == 1 && list[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = list[0].Name
		list = list[0].Options
	}

	opts = make(optionMap, len(list))
	for _, opt := range list {
		opts[opt.Name] = opt
	}

	return sub, opts
}

func (o optionMap) String(name, fallback string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}

	return fallback
}

func (o optionMap) Int(name string, fallback int) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}

	return fallback
}

func (o optionMap) Bool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}

	return false
}

// The ID of a user or attachment option, empty if the option was not given.
func (o optionMap) ID(name string) string {
	if opt, ok := o[name]; ok {
		if id, ok := opt.Value.(string); ok {
			return id
		}
	}

	return ""
}

// The attachment passed to an attachment option, resolved from the interaction.
func resolvedAttachment(i *discordgo.Interaction, id string) *discordgo.MessageAttachment {
	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil || id == "" {
		return nil
	}

	return resolved.Attachments[id]
}

// The user passed to a user option along with the name they go by in the guild.
func resolvedUser(i *discordgo.Interaction, id string) (*discordgo.User, string) {
	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil || id == "" {
		return nil, ""
	}

	user := resolved.Users[id]
	if user == nil {
		return nil, ""
	}

	if m := resolved.Members[id]; m != nil && m.Nick != "" {
		return user, m.Nick
	}

	return user, displayName(user)
}

// The name a user shows up as when they have no server nickname.
func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}

	return u.Username
}

// The name the author of an interaction goes by where it was run.
func authorDisplayName(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}

	if i.Member != nil && i.Member.User != nil {
		return displayName(i.Member.User)
	}
	if i.User != nil {
		return displayName(i.User)
	}

	return ""
}

// Who the Maplist API should record as having made a change.
func maplistUser(u *discordgo.User) maplist.DiscordUser {
	return maplist.DiscordUser{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL(""),
	}
}
