package slashcommands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"mlbot/shared"
	"mlbot/shared/embeds"
	"mlbot/utils/config"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type MapVoteCommand struct {
	*Deps
}

func (cmd MapVoteCommand) Name() string        { return "map-vote" }
func (cmd MapVoteCommand) Description() string { return "Call other moderators to vote on a map" }
func (cmd MapVoteCommand) GuildID() string     { return cmd.Config.Maplist.GuildID }
func (cmd MapVoteCommand) Module() string      { return "AdminUtils" }
func (cmd MapVoteCommand) Help() string {
	return "Call other moderators to vote on a map, by its code or by an image. " +
		"The vote closes by itself after a while."
}

func (cmd MapVoteCommand) Options() AppCommandOpts {
	format := discordutil.RequiredStringOption("game_format", "The list the vote is for", 1, 20)
	format.Choices = formatChoices()

	return AppCommandOpts{
		format,
		discordutil.StringOption("map_code", "The map code to check", nil, 10),
		{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        "map_preview",
			Description: "An arbitrary image to call the vote on",
		},
		discordutil.BoolOption("silent", "Whether the command should ping or not"),
	}
}

// The vote channel of a list and the roles allowed to call votes in it.
func (cmd MapVoteCommand) voteTarget(format string) (config.VoteChannel, []string, string) {
	ml := cmd.Config.Maplist
	if format == "Expert List" {
		return ml.ExpertVote, slices.Concat(ml.AdminRoles, ml.ExpertModRoles), "You are not an Expert List Moderator!"
	}

	return ml.ListVote, slices.Concat(ml.AdminRoles, ml.ListModRoles), "You are not a Maplist Moderator!"
}

func (cmd MapVoteCommand) Execute(ctx context.Context, s Session, i *discordgo.Interaction) error {
	_, opts := commandOptions(i)

	target, roles, denied := cmd.voteTarget(opts.String("game_format", ""))
	if !discordutil.HasAnyRole(i.Member, roles...) {
		return discordutil.SendEphemeral(s, i, denied)
	}

	code := strings.ToUpper(strings.TrimSpace(opts.String("map_code", "")))
	preview := resolvedAttachment(i, opts.ID("map_preview"))
	if code == "" && preview == nil {
		return discordutil.SendEphemeral(s, i, "You must either provide a `map_code` or a `map_preview`!")
	}

	imageURL := ""
	if preview != nil {
		imageURL = preview.URL
	} else {
		custom, err := cmd.NinjaKiwi.CustomMap(ctx, code)
		if err != nil {
			return err
		}
		if custom == nil {
			return discordutil.SendEphemeral(s, i, fmt.Sprintf("There is no map with code %s", code))
		}

		imageURL = cmd.Config.PreviewURL(code)
	}

	author := discordutil.GetInteractionAuthor(i)
	send := &discordgo.MessageSend{
		Content: fmt.Sprintf("<@&%s>\n", target.RoleID),
		Embeds:  []*discordgo.MessageEmbed{embeds.NewMapVoteEmbed(author.ID, code, imageURL)},
	}
	if opts.Bool("silent") {
		send.AllowedMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
	}

	msg, err := s.ChannelMessageSendComplex(target.ChannelID, send)
	if err != nil {
		return fmt.Errorf("posting vote in %s: %w", target.ChannelID, err)
	}

	link := discordutil.MessageLink(cmd.Config.Maplist.GuildID, target.ChannelID, msg.ID)
	if err := discordutil.SendEphemeral(s, i, fmt.Sprintf("You successfully [called a vote](%s)!", link)); err != nil {
		return err
	}

	for _, emoji := range []string{shared.EMOJIS.CHECK, shared.EMOJIS.CROSS} {
		if err := s.MessageReactionAdd(target.ChannelID, msg.ID, emoji); err != nil {
			return fmt.Errorf("reacting to vote %s: %w", msg.ID, err)
		}
	}
	if err := s.ChannelMessagePin(target.ChannelID, msg.ID); err != nil {
		return fmt.Errorf("pinning vote %s: %w", msg.ID, err)
	}

	expire, err := cmd.Votes.Track(target.ChannelID, msg.ID)
	fields := log.Fields{"channel": target.ChannelID, "message": msg.ID, "expire": expire}
	if err != nil {
		log.WithFields(fields).WithError(err).Error("could not save map vote")
		return nil
	}

	log.WithFields(fields).Info("map vote called")
	return nil
}
