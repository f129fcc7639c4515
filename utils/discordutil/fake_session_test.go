package discordutil

import (
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// Records every call a handler makes instead of talking to Discord.
type fakeSession struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, r *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeSession) InteractionResponseEdit(_ *discordgo.Interaction, e *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edits = append(f.edits, e)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, p *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.followups = append(f.followups, p)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) lastEdit(t *testing.T) *discordgo.WebhookEdit {
	t.Helper()
	require.NotEmpty(t, f.edits, "expected the message to have been edited")

	return f.edits[len(f.edits)-1]
}

func (f *fakeSession) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	require.NotEmpty(t, f.responses, "expected an interaction response")

	return f.responses[len(f.responses)-1]
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}}
}

func slashCommand(userID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     "cmd",
		Type:   discordgo.InteractionApplicationCommand,
		Member: member(userID),
		Data:   discordgo.ApplicationCommandInteractionData{Name: "test"},
	}
}

func press(customID, userID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     "press",
		Type:   discordgo.InteractionMessageComponent,
		Member: member(userID),
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}
}

func choose(customID, userID string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     "choose",
		Type:   discordgo.InteractionMessageComponent,
		Member: member(userID),
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.SelectMenuComponent,
			Values:        values,
		},
	}
}

// Attaches the components of an edited message to i, as Discord does for clicks on it.
func onMessage(i *discordgo.Interaction, e *discordgo.WebhookEdit) *discordgo.Interaction {
	i.Message = &discordgo.Message{ID: "msg"}
	if e.Components != nil {
		i.Message.Components = *e.Components
	}

	return i
}

func submitModal(customID, userID string, inputs map[string]string) *discordgo.Interaction {
	comps := []discordgo.MessageComponent{}
	for id, v := range inputs {
		comps = append(comps, &discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: id, Value: v}},
		})
	}

	return &discordgo.Interaction{
		ID:     "modal",
		Type:   discordgo.InteractionModalSubmit,
		Member: member(userID),
		Data:   discordgo.ModalSubmitInteractionData{CustomID: customID, Components: comps},
	}
}

// The component at (row, col) of an edit.
func componentAt(t *testing.T, e *discordgo.WebhookEdit, row, col int) discordgo.MessageComponent {
	t.Helper()
	require.NotNil(t, e.Components)

	rows := *e.Components
	require.Greater(t, len(rows), row)

	ar, ok := rows[row].(discordgo.ActionsRow)
	require.True(t, ok, "row %d is not an action row", row)
	require.Greater(t, len(ar.Components), col)

	return ar.Components[col]
}

func buttonAt(t *testing.T, e *discordgo.WebhookEdit, row, col int) discordgo.Button {
	t.Helper()

	b, ok := componentAt(t, e, row, col).(discordgo.Button)
	require.True(t, ok, "component (%d, %d) is not a button", row, col)

	return b
}

func selectAt(t *testing.T, e *discordgo.WebhookEdit, row int) discordgo.SelectMenu {
	t.Helper()

	m, ok := componentAt(t, e, row, 0).(discordgo.SelectMenu)
	require.True(t, ok, "row %d does not hold a select menu", row)

	return m
}
