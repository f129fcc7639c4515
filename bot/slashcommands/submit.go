package slashcommands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"mlbot/api/maplist"
	"mlbot/shared"
	"mlbot/utils"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const MAX_PROOF_SIZE = 2_000_000

var proofFormats = []string{"webp", "png", "jpeg", "jpg"}

const (
	PROOF_TOO_BIG_TEXT     = "❌ Image size must be up to 2MB"
	PROOF_BAD_FORMAT_TEXT  = "❌ Admissible image formats: `webp`, `png`, `jpg`"
	MAP_SUBMITTED_TEXT     = "✅ Your map was submitted!"
	RUN_NOT_IMPLEMENTED    = "`[501]` Not yet implemented!"
	REOPEN_ONCE_TEXT       = "You can only reopen the modal once. Try running the command again!"
	INVALID_PROOF_URL_TEXT = "Proof URL is not a valid link!"
	INVALID_SAVEUP_TEXT    = "LCC Saveup must be a positive number!"
)

var RULES_TEXT = "Before you submit anything, remember that there are RULES for " +
	"your run or map to be accepted **__You should read them!__** " +
	"They're a ~3 minute read.\n\n" +
	fmt.Sprintf("You can find them anytime at %s / %s. **__If you ", shared.LIST_RULES_URL, shared.EXPERT_RULES_URL) +
	"submit something without reading them first, it might not be accepted!__**"

// Custom IDs of the modal text inputs.
const (
	INPUT_NOTES      = "notes"
	INPUT_VIDEO      = "vproof_url"
	INPUT_LCC_SAVEUP = "lcc_saveup"
)

const (
	actionSubmit    = "submit"
	actionReadRules = "read-rules"
	actionRetry     = "retry"
)

type SubmitCommand struct {
	*Deps
}

func (cmd SubmitCommand) Name() string        { return "submit" }
func (cmd SubmitCommand) Description() string { return "Submit something to the Maplist" }
func (cmd SubmitCommand) GuildID() string     { return cmd.Config.Maplist.GuildID }
func (cmd SubmitCommand) Module() string      { return "Submission" }
func (cmd SubmitCommand) Help() string {
	return "Submit a map to the Maplist or the Expert List, or a run (or LCC) on a list map. " +
		"Proof images can be up to 2MB."
}

func (cmd SubmitCommand) Options() AppCommandOpts {
	proposed := discordutil.RequiredStringOption("proposed_difficulty", "What would your map be?", 1, 100)
	proposed.Choices = discordutil.StringChoices(maplist.AllPlacements()...)

	runProof := "Image proof of you beating CHIMPS on the map (max 2MB)"

	return AppCommandOpts{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "map",
			Description: "Submit a map to the Maplist",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("code", "The BTD6 map's code", 7, 10),
				proposed,
				discordutil.RequiredAttachmentOption("proof", "Proof that you (or someone) beat CHIMPS on your map"),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "run",
			Description: "Submit a run on a map",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("map", "The map's code, placement, name or alias", 1, 100),
				discordutil.RequiredAttachmentOption("proof", runProof),
				discordutil.BoolOption("no_optimal_hero", "Whether you didn't use the optimal hero(s)"),
				discordutil.BoolOption("black_border", "Whether the run was a black border"),
				discordutil.BoolOption("is_lcc", "Whether the run was a least cash CHIMPS"),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "lcc",
			Description: "Submit a LCC on a map",
			Options: AppCommandOpts{
				discordutil.RequiredStringOption("map", "The map's code, placement, name or alias", 1, 100),
				discordutil.RequiredAttachmentOption("proof", runProof),
				discordutil.BoolOption("no_optimal_hero", "Whether you didn't use the optimal hero(s)"),
				discordutil.BoolOption("black_border", "Whether the run was a black border"),
			},
		},
	}
}

func (cmd SubmitCommand) Execute(ctx context.Context, s Session, i *discordgo.Interaction) error {
	sub, opts := commandOptions(i)

	proof := resolvedAttachment(i, opts.ID("proof"))
	if proof == nil {
		return fmt.Errorf("submit %s: proof attachment missing from interaction", sub)
	}
	if msg := CheckProof(proof); msg != "" {
		return discordutil.SendEphemeral(s, i, msg)
	}

	author := discordutil.GetInteractionAuthor(i)

	switch sub {
	case "map":
		placement := opts.String("proposed_difficulty", "")
		if _, _, err := maplist.ParsePlacement(placement); err != nil {
			return discordutil.SendEphemeral(s, i, fmt.Sprintf("`%s` is not a valid difficulty!", placement))
		}

		view, modal := cmd.mapModal(author, opts.String("code", ""), placement, proof)
		return cmd.openBehindRules(ctx, s, i, view, modal)
	case "run", "lcc":
		run := RunSubmission{
			MapID:         opts.String("map", ""),
			Proof:         proof,
			NoOptimalHero: opts.Bool("no_optimal_hero"),
			BlackBorder:   opts.Bool("black_border"),
			LCC:           sub == "lcc" || opts.Bool("is_lcc"),
		}

		view, modal := cmd.runModal(s, author, run, nil)
		return cmd.openBehindRules(ctx, s, i, view, modal)
	}

	return fmt.Errorf("unknown submit subcommand %q", sub)
}

// Returns why a proof image can't be accepted, or "" if it can.
func CheckProof(att *discordgo.MessageAttachment) string {
	if att.Size > MAX_PROOF_SIZE {
		return PROOF_TOO_BIG_TEXT
	}

	parts := strings.Split(att.ContentType, "/")
	if !slices.Contains(proofFormats, strings.ToLower(parts[len(parts)-1])) {
		return PROOF_BAD_FORMAT_TEXT
	}

	return ""
}

// Opens modal straight away for users who have read the submission rules.
// Everyone else is shown the rules first, and the modal opens once they confirm reading them.
//
// The profile lookup happens before responding, so it has to fit within Discord's 3 second window.
func (cmd SubmitCommand) openBehindRules(ctx context.Context, s Session, i *discordgo.Interaction, view *discordutil.View, modal *discordgo.InteractionResponseData) error {
	author := discordutil.GetInteractionAuthor(i)

	profile, err := cmd.Maplist.User(ctx, author.ID, true)
	var notFound *maplist.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}

	cmd.Views.Register(view)
	if profile.HasSeenPopup {
		return discordutil.OpenModal(s, i, modal)
	}

	rules := discordutil.NewView(author.ID, 0)
	rules.AddButton(actionReadRules, discordgo.Button{
		Label: "I have read the rules",
		Style: discordgo.SuccessButton,
	}, func(_ context.Context, bs discordutil.InteractionSession, bi *discordgo.Interaction) error {
		cmd.Views.Unregister(rules.ID)
		go cmd.markRulesRead(maplistUser(author))

		if err := discordutil.OpenModal(bs, bi, modal); err != nil {
			return err
		}

		return s.InteractionResponseDelete(i)
	})

	return discordutil.Reply(s, i, cmd.Views, discordutil.Rendered{
		Page:  discordutil.Page{Content: RULES_TEXT},
		Views: []*discordutil.View{rules},
	}, true)
}

func (cmd SubmitCommand) markRulesRead(user maplist.DiscordUser) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cmd.Maplist.ReadRules(ctx, user); err != nil {
		log.WithField("user", user.ID).WithError(err).Warn("could not mark submission rules as read")
	}
}

func (cmd SubmitCommand) mapModal(author *discordgo.User, code, placement string, proof *discordgo.MessageAttachment) (*discordutil.View, *discordgo.InteractionResponseData) {
	view := discordutil.NewView(author.ID, 0)
	view.Handle(actionSubmit, func(ctx context.Context, s discordutil.InteractionSession, mi *discordgo.Interaction) error {
		cmd.Views.Unregister(view.ID)
		return cmd.submitMap(ctx, s, mi, code, placement, proof)
	})

	return view, &discordgo.InteractionResponseData{
		CustomID: view.CustomID(actionSubmit),
		Title:    "Submit a Map",
		Components: []discordgo.MessageComponent{
			textInputRow(discordgo.TextInput{
				CustomID:    INPUT_NOTES,
				Label:       "Notes",
				Style:       discordgo.TextInputParagraph,
				Placeholder: "Additional notes about the map, if any (creators, verifiers, ...)",
				Required:    false,
			}),
		},
	}
}

func textInputRow(input discordgo.TextInput) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}}
}

func (cmd SubmitCommand) submitMap(ctx context.Context, s discordutil.InteractionSession, mi *discordgo.Interaction, code, placement string, proof *discordgo.MessageAttachment) error {
	notes := discordutil.GetModalInputs(mi)[INPUT_NOTES]

	if err := discordutil.DeferReply(s, mi, true); err != nil {
		return err
	}

	mtype, proposed, err := maplist.ParsePlacement(placement)
	if err != nil {
		return err
	}

	image, err := cmd.Requests.Send(ctx, http.MethodGet, proof.URL, nil, nil)
	if err != nil {
		return fmt.Errorf("downloading proof %s: %w", proof.Filename, err)
	}

	err = cmd.Maplist.SubmitMap(ctx, maplist.MapSubmission{
		User:     maplistUser(discordutil.GetInteractionAuthor(mi)),
		Code:     strings.ToUpper(code),
		Notes:    notes,
		Type:     mtype,
		Proposed: proposed,
	}, maplist.Proof{
		Filename:    proof.Filename,
		ContentType: proof.ContentType,
		Body:        bytes.NewReader(image),
	})

	content := MAP_SUBMITTED_TEXT
	if err != nil {
		var bad *maplist.BadRequestError
		if !errors.As(err, &bad) {
			return err
		}

		content = "❌ Something went wrong: \n" + bad.Explain()
	}

	_, err = discordutil.EditReply(s, mi, &discordgo.InteractionResponseData{Content: content})
	return err
}

// A run being submitted, as given to /submit run or /submit lcc.
type RunSubmission struct {
	MapID         string
	Proof         *discordgo.MessageAttachment
	NoOptimalHero bool
	BlackBorder   bool
	LCC           bool
}

// Runs with any medal besides a plain win need a video.
func (r RunSubmission) RequiresVideo() bool {
	return r.LCC || r.NoOptimalHero || r.BlackBorder
}

// Checks the text typed into a run modal. Returns what is wrong, or "" if nothing is.
func (r RunSubmission) Validate(inputs map[string]string) string {
	if r.RequiresVideo() && !utils.IsLink(strings.TrimSpace(inputs[INPUT_VIDEO])) {
		return INVALID_PROOF_URL_TEXT
	}

	if r.LCC {
		raw := strings.TrimSpace(inputs[INPUT_LCC_SAVEUP])
		if n, err := strconv.Atoi(raw); err != nil || n < 0 || strings.ContainsAny(raw, "+-") {
			return INVALID_SAVEUP_TEXT
		}
	}

	return ""
}

// Builds the run modal, prefilled with values when it is being reopened.
func (cmd SubmitCommand) runModal(s Session, author *discordgo.User, run RunSubmission, values map[string]string) (*discordutil.View, *discordgo.InteractionResponseData) {
	view := discordutil.NewView(author.ID, 0)
	view.Handle(actionSubmit, func(ctx context.Context, _ discordutil.InteractionSession, mi *discordgo.Interaction) error {
		cmd.Views.Unregister(view.ID)

		inputs := discordutil.GetModalInputs(mi)
		if msg := run.Validate(inputs); msg != "" {
			return cmd.offerRetry(s, mi, author, run, inputs, msg)
		}

		return discordutil.SendEphemeral(s, mi, RUN_NOT_IMPLEMENTED)
	})

	rows := []discordgo.MessageComponent{
		textInputRow(discordgo.TextInput{
			CustomID: INPUT_NOTES,
			Label:    "Notes",
			Style:    discordgo.TextInputParagraph,
			Placeholder: "Additional notes about the run, if any (people who helped, " +
				"strategy, links to additional proof, ...)",
			MaxLength: 500,
			Value:     values[INPUT_NOTES],
		}),
	}
	if run.RequiresVideo() {
		rows = append(rows, textInputRow(discordgo.TextInput{
			CustomID:    INPUT_VIDEO,
			Label:       "Video Proof URL",
			Style:       discordgo.TextInputShort,
			Placeholder: "https://youtube.com/...",
			Required:    true,
			Value:       values[INPUT_VIDEO],
		}))
	}
	if run.LCC {
		rows = append(rows, textInputRow(discordgo.TextInput{
			CustomID:    INPUT_LCC_SAVEUP,
			Label:       "LCC Saveup",
			Style:       discordgo.TextInputShort,
			Placeholder: "How much money you had left",
			Required:    true,
			Value:       values[INPUT_LCC_SAVEUP],
		}))
	}

	return view, &discordgo.InteractionResponseData{
		CustomID:   view.CustomID(actionSubmit),
		Title:      "Submit a Completion",
		Components: rows,
	}
}

// Tells the user what was wrong with their run modal and lets them reopen it, once, with what they typed.
func (cmd SubmitCommand) offerRetry(s Session, mi *discordgo.Interaction, author *discordgo.User, run RunSubmission, inputs map[string]string, problem string) error {
	var opened atomic.Bool

	retry := discordutil.NewView(author.ID, 0)
	retry.AddButton(actionRetry, discordgo.Button{
		Label: "Try again",
		Style: discordgo.DangerButton,
	}, func(_ context.Context, bs discordutil.InteractionSession, bi *discordgo.Interaction) error {
		if opened.Swap(true) {
			return discordutil.SendEphemeral(bs, bi, REOPEN_ONCE_TEXT)
		}

		view, modal := cmd.runModal(s, author, run, inputs)
		cmd.Views.Register(view)
		if err := discordutil.OpenModal(bs, bi, modal); err != nil {
			return err
		}

		return s.InteractionResponseDelete(mi)
	})

	return discordutil.Reply(s, mi, cmd.Views, discordutil.Rendered{
		Page:  discordutil.Page{Content: fmt.Sprintf("❌  %s\n%s", problem, shared.EMOJIS.BLANK)},
		Views: []*discordutil.View{retry},
	}, true)
}
