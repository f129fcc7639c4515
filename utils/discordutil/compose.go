package discordutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Discord allows at most 5 action rows per message and 5 buttons per row.
// A select menu needs a row to itself.
const (
	MaxRows     = 5
	MaxRowItems = 5
)

var (
	ErrTooManyRows = errors.New("too many views for one message")
	ErrRowOverflow = errors.New("view does not fit in one action row")
)

// The component grid of one message and the views it was built from.
type Layout struct {
	Rows  []discordgo.MessageComponent
	Views []*View
}

// Places each view on its own action row, in the order given. Nil and empty views are skipped.
// Fails instead of rendering a partial grid when the views do not fit.
func Compose(views ...*View) (Layout, error) {
	layout := Layout{Rows: []discordgo.MessageComponent{}}
	for _, v := range views {
		if v.Empty() {
			continue
		}
		if err := checkRow(v); err != nil {
			return Layout{}, err
		}
		if len(layout.Rows) == MaxRows {
			return Layout{}, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, MaxRows)
		}

		layout.Rows = append(layout.Rows, discordgo.ActionsRow{Components: v.Items})
		layout.Views = append(layout.Views, v)
	}

	return layout, nil
}

func checkRow(v *View) error {
	if len(v.Items) > MaxRowItems {
		return fmt.Errorf("%w: view %s has %d components", ErrRowOverflow, v.ID, len(v.Items))
	}

	for _, item := range v.Items {
		if item.Type() == discordgo.ButtonComponent || item.Type() == discordgo.TextInputComponent {
			continue
		}
		if len(v.Items) > 1 {
			return fmt.Errorf("%w: view %s mixes a select menu with other components", ErrRowOverflow, v.ID)
		}
	}

	return nil
}

// Text and embeds of one rendered message.
type Page struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
}

// A complete message: its page plus the views composed under it, top row first.
type Rendered struct {
	Page
	Views []*View
}

// Replaces the message of i with r and registers the views it carries.
// The interaction must already have been responded to or deferred.
//
// Views are registered before the edit so a click landing right after it is never
// mistaken for one on an expired menu. The sweep clears them if the edit fails.
func Edit(s InteractionSession, i *discordgo.Interaction, reg *Registry, r Rendered) error {
	layout, err := Compose(r.Views...)
	if err != nil {
		return err
	}

	reg.Register(layout.Views...)
	_, err = EditReply(s, i, &discordgo.InteractionResponseData{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: layout.Rows,
	})

	return err
}

// Resolves m and edits the message of i with it. See [Edit].
func EditWith(ctx context.Context, s InteractionSession, i *discordgo.Interaction, reg *Registry, m Message) error {
	r, err := Resolve(ctx, m)
	if err != nil {
		return err
	}

	return Edit(s, i, reg, r)
}

// Responds to i with a new message showing r, registering the views it carries. See [Edit].
func Reply(s InteractionSession, i *discordgo.Interaction, reg *Registry, r Rendered, ephemeral bool) error {
	layout, err := Compose(r.Views...)
	if err != nil {
		return err
	}

	data := &discordgo.InteractionResponseData{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: layout.Rows,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	reg.Register(layout.Views...)
	return SendReply(s, i, data)
}
