package discordutil

import (
	"fmt"
	"slices"

	"github.com/bwmarrin/discordgo"
)

func HasRole(m *discordgo.Member, roleID string) (bool, error) {
	if m == nil {
		return false, fmt.Errorf("cannot get roles from interaction: Member is nil")
	}

	return slices.Contains(m.Roles, roleID), nil
}

// Reports whether m holds at least one of roleIDs. DMs have no member and never match.
func HasAnyRole(m *discordgo.Member, roleIDs ...string) bool {
	if m == nil {
		return false
	}

	return slices.ContainsFunc(roleIDs, func(id string) bool {
		return slices.Contains(m.Roles, id)
	})
}

// Mention string for a user ID.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

func MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
