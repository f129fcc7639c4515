package slashcommands

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mlbot/api/maplist"
	"mlbot/api/ninjakiwi"
	"mlbot/utils/config"
	"mlbot/utils/discordutil"
	"mlbot/utils/requests"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// Records what a command does instead of talking to Discord.
type fakeSession struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	sent      []*discordgo.MessageSend
	reactions []string
	pinned    []string
	deleted   int
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

func (f *fakeSession) InteractionResponseDelete(_ *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted++
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, _ *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func (f *fakeSession) ChannelMessage(_, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: messageID}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeSession) ChannelMessageUnpin(_, _ string, _ ...discordgo.RequestOption) error {
	return nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "900", ChannelID: channelID}, nil
}

func (f *fakeSession) MessageReactionAdd(_, _, emojiID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reactions = append(f.reactions, emojiID)
	return nil
}

func (f *fakeSession) ChannelMessagePin(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pinned = append(f.pinned, messageID)
	return nil
}

func (f *fakeSession) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	require.NotEmpty(t, f.responses, "expected an interaction response")

	return f.responses[len(f.responses)-1]
}

func (f *fakeSession) lastEdit(t *testing.T) *discordgo.WebhookEdit {
	t.Helper()
	require.NotEmpty(t, f.edits, "expected the response to have been edited")

	return f.edits[len(f.edits)-1]
}

// Deps whose Maplist and Ninja Kiwi clients both talk to h.
func newTestDeps(t *testing.T, h http.HandlerFunc) *Deps {
	t.Helper()

	if h == nil {
		h = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request to %s", r.URL)
			w.WriteHeader(http.StatusTeapot)
		}
	}

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Maplist.GuildID = "1"
	cfg.Maplist.AdminRoles = []string{"admin"}
	cfg.Maplist.ListModRoles = []string{"listmod"}
	cfg.Maplist.ExpertModRoles = []string{"expertmod"}
	cfg.Maplist.ListVote = config.VoteChannel{ChannelID: "100", RoleID: "5"}
	cfg.Maplist.ExpertVote = config.VoteChannel{ChannelID: "200", RoleID: "6"}

	req := requests.New(time.Second)

	return &Deps{
		Config:    &cfg,
		Maplist:   maplist.New(srv.URL, req, nil),
		NinjaKiwi: ninjakiwi.New(srv.URL, req),
		Requests:  req,
		Views:     discordutil.NewRegistry(time.Minute),
		Started:   time.Unix(1_700_000_000, 0),
	}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

func boolOpt(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: value}
}

func slashCommand(name, userID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     "cmd",
		AppID:  "bot",
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}
}
