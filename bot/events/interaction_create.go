package events

import (
	"context"
	"runtime/debug"

	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Routes buttons, select menus and modal submits to the view that owns them.
//
// List of message components: https://discord.com/developers/docs/components/reference#component-object-component-types
func (h *Handlers) OnInteractionCreateComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent && i.Type != discordgo.InteractionModalSubmit {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), COMMAND_TIMEOUT)
	defer cancel()

	h.dispatch(ctx, s, i.Interaction)
}

func (h *Handlers) dispatch(ctx context.Context, s discordutil.InteractionSession, i *discordgo.Interaction) {
	defer func() {
		if err := recover(); err != nil {
			log.WithField("interaction", i.ID).Errorf("component handler recovered from a panic.\n%v\n%s", err, debug.Stack())
			discordutil.ReplyWithPanicError(s, i, err)
		}
	}()

	handled, err := h.Deps.Views.Dispatch(ctx, s, i)
	if !handled {
		log.WithField("custom_id", discordutil.InteractionCustomID(i)).Debug("interaction does not belong to any view")
		return
	}

	if err != nil {
		discordutil.ReplyWithError(s, i, err)
	}
}
