package slashcommands

import (
	"context"
	"regexp"

	"mlbot/shared"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
)

var oakPattern = regexp.MustCompile(`^oak_[\da-z]+$`)

const OAK_INSTRUCTIONS = "__**About verification**__\n" +
	"To know who you are, I need your **Open Access Key (OAK)**. This is a bit of text that " +
	"allows me to see your ingame profile picture and stats and things like that.\n\n" +
	"__**Generate your OAK**__\n" +
	"🔹 Open Bloons TD 6 (or any NK game) > Settings > My Account > Open Data API (it's a small " +
	"link in the bottom right) > Generate Key. Your OAK should look something like `oak_h6ea...p1hr`.\n" +
	"🔹 Copy it (note: the \"Copy\" button doesn't work, so just manually select it and do ctrl+C) " +
	"and, do /oak and paste your OAK as a parameter.\n" +
	"🔹 Congrats, you have verified yourself!\n\n" +
	"__**More information**__\n" +
	"Ninja Kiwi talking about OAKs: " + shared.NK_OAK_SUPPORT_URL + "\n"

const (
	OAK_MALFORMED_TEXT = "Your OAK is not well formatted! it should be `oak_` followed by some numbers and/or lowercase letters!\n\n" +
		"*Don't know what an OAK is? Leave the field blank to get a help message!*"
	OAK_UNKNOWN_TEXT = "Couldn't find a BTD6 user with that OAK!\n-# Are you sure it's the correct one?"
	OAK_SET_TEXT     = "✅ You OAK was set correctly! Your profile picture should appear in a bit!"
)

type OakCommand struct {
	*Deps
}

func (cmd OakCommand) Name() string        { return "oak" }
func (cmd OakCommand) Description() string { return "Verify who you are in Bloons TD 6!" }
func (cmd OakCommand) Module() string      { return "User" }
func (cmd OakCommand) Help() string        { return "Verify your BTD6 profile!" }

func (cmd OakCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		discordutil.StringOption("oak", "Your OAK (leave blank if you don't know what that is)", nil, 100),
	}
}

func (cmd OakCommand) Execute(ctx context.Context, s Session, i *discordgo.Interaction) error {
	_, opts := commandOptions(i)

	oak := opts.String("oak", "")
	if oak == "" {
		return discordutil.SendEphemeral(s, i, OAK_INSTRUCTIONS)
	}
	if !oakPattern.MatchString(oak) {
		return discordutil.SendEphemeral(s, i, OAK_MALFORMED_TEXT)
	}

	if err := discordutil.DeferReply(s, i, true); err != nil {
		return err
	}

	nkUser, err := cmd.NinjaKiwi.User(ctx, oak)
	if err != nil {
		return err
	}
	if nkUser == nil {
		_, err := discordutil.EditReply(s, i, &discordgo.InteractionResponseData{Content: OAK_UNKNOWN_TEXT})
		return err
	}

	if err := cmd.Maplist.SetOAK(ctx, maplistUser(discordutil.GetInteractionAuthor(i)), oak); err != nil {
		return err
	}

	_, err = discordutil.EditReply(s, i, &discordgo.InteractionResponseData{Content: OAK_SET_TEXT})
	return err
}
