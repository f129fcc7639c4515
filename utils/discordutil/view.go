package discordutil

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const customIDPrefix = "mlv"

// Handles one interaction routed to a view, either a component press or a modal submit.
type Action func(ctx context.Context, s InteractionSession, i *discordgo.Interaction) error

// A set of interactive components that always occupies a single action row,
// together with the actions its components trigger.
//
// Views are built once and never changed after being attached to a message.
// Navigating builds a new view instead.
type View struct {
	ID      string
	Owner   string        // Only this user may interact. Empty allows anyone.
	Timeout time.Duration // Zero means the registry's max lifetime applies.
	Items   []discordgo.MessageComponent

	actions map[string]Action
}

func NewView(owner string, timeout time.Duration) *View {
	return &View{
		ID:      uuid.NewString(),
		Owner:   owner,
		Timeout: timeout,
		actions: make(map[string]Action),
	}
}

// The custom ID routing an interaction back to the given action of this view.
//
//	mlv:<view id>:<action>
func (v *View) CustomID(action string) string {
	return customIDPrefix + ":" + v.ID + ":" + action
}

// Adds a button whose press runs fn. The button's custom ID is overwritten.
func (v *View) AddButton(action string, b discordgo.Button, fn Action) *View {
	b.CustomID = v.CustomID(action)
	v.Items = append(v.Items, b)
	v.actions[action] = fn

	return v
}

// Adds a select menu whose choice runs fn. The menu's custom ID is overwritten.
func (v *View) AddSelect(action string, m discordgo.SelectMenu, fn Action) *View {
	m.CustomID = v.CustomID(action)
	v.Items = append(v.Items, m)
	v.actions[action] = fn

	return v
}

// Registers an action with no component of its own, such as the submit of a modal this view opens.
func (v *View) Handle(action string, fn Action) *View {
	v.actions[action] = fn
	return v
}

func (v *View) Empty() bool {
	return v == nil || len(v.Items) == 0
}

// Whether there is nothing to route to the view: no components and no standalone actions.
func (v *View) Inert() bool {
	return v == nil || (len(v.Items) == 0 && len(v.actions) == 0)
}

func (v *View) OwnedBy(userID string) bool {
	return v.Owner == "" || v.Owner == userID
}

// Splits a view custom ID into its view ID and action. Returns false for IDs not made by [View.CustomID].
func ParseCustomID(id string) (viewID, action string, ok bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}

	return parts[1], parts[2], true
}

// The custom ID carried by a component or modal submit interaction, or "" for any other kind.
func InteractionCustomID(i *discordgo.Interaction) string {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}

	return ""
}

// The IDs of every view with a component on m, in order of appearance.
func MessageViewIDs(m *discordgo.Message) []string {
	if m == nil {
		return nil
	}

	var ids []string
	var walk func(comps []discordgo.MessageComponent)
	walk = func(comps []discordgo.MessageComponent) {
		for _, c := range comps {
			var customID string
			switch c := c.(type) {
			case *discordgo.ActionsRow:
				walk(c.Components)
			case discordgo.ActionsRow:
				walk(c.Components)
			case *discordgo.Button:
				customID = c.CustomID
			case discordgo.Button:
				customID = c.CustomID
			case *discordgo.SelectMenu:
				customID = c.CustomID
			case discordgo.SelectMenu:
				customID = c.CustomID
			}

			if id, _, ok := ParseCustomID(customID); ok && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	walk(m.Components)

	return ids
}
