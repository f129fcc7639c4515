package discordutil

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// The part of *discordgo.Session needed to answer interactions.
// Accepting this instead of the session lets views and commands be driven by a fake in tests.
type InteractionSession interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, e *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Errors that know how to describe themselves to the user who triggered them.
type Explainer interface {
	Explain() string
}

func OpenModal(s InteractionSession, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
}

// Acknowledges a component or modal interaction without touching the message it came from.
// The message can then be changed with [EditReply].
func DeferComponent(s InteractionSession, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// Responds to an interaction with a deferred response, allowing more time to process before sending a follow-up message.
//
// Deferred interactions cannot carry data and can only be edited or followed up.
func DeferReply(s InteractionSession, i *discordgo.Interaction, ephemeral bool) error {
	var data *discordgo.InteractionResponseData
	if ephemeral {
		data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}

	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func SendReply(s InteractionSession, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Replies with a message only the interaction author can see.
func SendEphemeral(s InteractionSession, i *discordgo.Interaction, content string) error {
	return SendReply(s, i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func EditReply(s InteractionSession, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	embeds := data.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}

	components := data.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	return s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:         &data.Content,
		Embeds:          &embeds,
		Files:           data.Files,
		Components:      &components,
		AllowedMentions: data.AllowedMentions,
	})
}

func EditOrSendReply(s InteractionSession, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	if err := SendReply(s, i, data); err == nil {
		return nil, nil
	}

	return EditReply(s, i, data)
}

// The text shown to a user when err reaches the top of a handler.
// Errors implementing [Explainer] anywhere in the chain speak for themselves,
// anything else only shows the type of the innermost error.
func ErrorMessage(err error) string {
	var exp Explainer
	if errors.As(err, &exp) {
		return exp.Explain()
	}

	return fmt.Sprintf("Error occurred: `%T`", rootCause(err))
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}

		err = next
	}
}

// Tells the interaction author about err, logging it first if it is not an [Explainer].
//
// Slash commands usually deferred already, so their original response is edited.
// Components and modals get a fresh ephemeral reply so the message they belong to is kept intact.
func ReplyWithError(s InteractionSession, i *discordgo.Interaction, err error) {
	var exp Explainer
	if !errors.As(err, &exp) {
		log.WithFields(log.Fields{
			"interaction": i.ID,
			"type":        i.Type.String(),
		}).WithError(err).Error("unhandled error in interaction handler")
	}

	content := ErrorMessage(err)
	data := &discordgo.InteractionResponseData{
		Flags:   discordgo.MessageFlagsEphemeral,
		Content: content,
	}

	if i.Type == discordgo.InteractionApplicationCommand {
		if _, err := EditOrSendReply(s, i, data); err == nil {
			return
		}
	} else if err := SendReply(s, i, data); err == nil {
		return
	}

	// Must be deferred, send follow up.
	FollowupContentEphemeral(s, i, content)
}

func ReplyWithPanicError(s InteractionSession, i *discordgo.Interaction, err any) {
	errStr := fmt.Sprintf("```%v```", err)
	content := "Bot attempted to fatally crash during this command! Please report the following error.\n" + errStr

	// Not already deferred, reply.
	_, err = EditOrSendReply(s, i, &discordgo.InteractionResponseData{
		Flags:   discordgo.MessageFlagsEphemeral,
		Content: content,
	})

	if err != nil {
		// Must be deferred, send follow up.
		FollowupContentEphemeral(s, i, content)
	}
}

// Creates a follow-up message for a previously deferred interaction response.
// This func waits for server confirmation of message send and ensures that the return struct is populated.
func Followup(s InteractionSession, i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return s.FollowupMessageCreate(i, true, params)
}

// Calls FollowUp with the supplied content which will only be visible to the interaction author.
func FollowupContentEphemeral(s InteractionSession, i *discordgo.Interaction, content string) (*discordgo.Message, error) {
	return Followup(s, i, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// Attempts to get the user from an interaction.
//
// Regular `User` is only filled for a DM, so this func uses guild-specific `Member.User` otherwise.
func GetInteractionAuthor(i *discordgo.Interaction) *discordgo.User {
	if i.User != nil {
		return i.User
	}
	if i.Member != nil {
		return i.Member.User
	}

	return nil
}

// Collects the values of every text input in a submitted modal, keyed by custom ID.
func GetModalInputs(i *discordgo.Interaction) map[string]string {
	inputs := make(map[string]string)
	for _, row := range i.ModalSubmitData().Components {
		actionRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue // Must not be an action row, we don't care.
		}

		// Gather values of all text input components in this row.
		for _, comp := range actionRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				inputs[input.CustomID] = input.Value
			}
		}
	}

	return inputs
}
