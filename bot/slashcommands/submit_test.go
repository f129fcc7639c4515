package slashcommands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"mlbot/api/maplist"

	"github.com/bwmarrin/discordgo"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A fake Maplist API for /submit map. popup is the user's has_seen_popup, or "404" for an unknown user.
type submitBackend struct {
	t         *testing.T
	popup     string
	reject    string // Body of a 400 answer to the submission, if set.
	downloads atomic.Int32
	submitted chan maplist.MapSubmission
	rulesRead chan string
}

func newSubmitBackend(t *testing.T, popup string) *submitBackend {
	return &submitBackend{
		t:         t,
		popup:     popup,
		submitted: make(chan maplist.MapSubmission, 1),
		rulesRead: make(chan string, 1),
	}
}

func (b *submitBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := b.t

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users/u1":
		assert.Equal(t, "true", r.URL.Query().Get("no_load_oak"))
		if b.popup == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"id": "u1", "name": "u1", "has_seen_popup": %s}`, b.popup)

	case r.Method == http.MethodGet && r.URL.Path == "/proof.png":
		b.downloads.Add(1)
		fmt.Fprint(w, "PNGDATA")

	case r.Method == http.MethodPut && r.URL.Path == "/read-rules":
		body, _ := io.ReadAll(r.Body)
		b.rulesRead <- string(body)

	case r.Method == http.MethodPost && r.URL.Path == "/maps/submit":
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		if f, hdr, err := r.FormFile("proof_completion"); assert.NoError(t, err) {
			img, _ := io.ReadAll(f)
			f.Close()
			assert.Equal(t, "proof.png", hdr.Filename)
			assert.Equal(t, "PNGDATA", string(img))
		}

		var sub maplist.MapSubmission
		assert.NoError(t, sonic.UnmarshalString(r.FormValue("data"), &sub))
		b.submitted <- sub

		if b.reject != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, b.reject)
		}

	default:
		t.Errorf("unexpected request %s %s", r.Method, r.URL)
		w.WriteHeader(http.StatusTeapot)
	}
}

func submitMapCommand(d *Deps) *discordgo.Interaction {
	i := slashCommand("submit", "u1", &discordgo.ApplicationCommandInteractionDataOption{
		Name: "map",
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("code", "zfmooku"),
			stringOpt("proposed_difficulty", "Maplist / #11 ~ 20"),
			{Name: "proof", Type: discordgo.ApplicationCommandOptionAttachment, Value: "att1"},
		},
	})

	data := i.ApplicationCommandData()
	data.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Attachments: map[string]*discordgo.MessageAttachment{
			"att1": {
				ID:          "att1",
				Filename:    "proof.png",
				ContentType: "image/png",
				Size:        100,
				URL:         d.Maplist.BaseURL() + "/proof.png",
			},
		},
	}
	i.Data = data

	return i
}

func submitModal(customID, notes string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     "modal",
		Type:   discordgo.InteractionModalSubmit,
		Member: &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "u1"}},
		Data: discordgo.ModalSubmitInteractionData{
			CustomID: customID,
			Components: []discordgo.MessageComponent{
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: INPUT_NOTES, Value: notes},
				}},
			},
		},
	}
}

func TestSubmitMapOpensModalWhenRulesWereSeen(t *testing.T) {
	b := newSubmitBackend(t, "true")
	d := newTestDeps(t, b.ServeHTTP)
	s := &fakeSession{}

	require.NoError(t, SubmitCommand{d}.Execute(context.Background(), s, submitMapCommand(d)))

	res := s.lastResponse(t)
	require.Equal(t, discordgo.InteractionResponseModal, res.Type)
	assert.Equal(t, "Submit a Map", res.Data.Title)
	assert.Zero(t, b.downloads.Load(), "the proof is only fetched once the modal is sent")

	handled, err := d.Views.Dispatch(context.Background(), s, submitModal(res.Data.CustomID, "made by me"))
	require.True(t, handled)
	require.NoError(t, err)

	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, s.lastResponse(t).Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, s.lastResponse(t).Data.Flags)
	assert.EqualValues(t, 1, b.downloads.Load())

	sub := <-b.submitted
	assert.Equal(t, "ZFMOOKU", sub.Code)
	assert.Equal(t, "made by me", sub.Notes)
	assert.Equal(t, maplist.SUBMIT_LIST, sub.Type)
	assert.Equal(t, 2, sub.Proposed)
	assert.Equal(t, "u1", sub.User.ID)

	assert.Equal(t, MAP_SUBMITTED_TEXT, *s.lastEdit(t).Content)
	assert.Zero(t, d.Views.Count(), "the modal can only be submitted once")
}

func TestSubmitMapExplainsRejectedFields(t *testing.T) {
	b := newSubmitBackend(t, "true")
	b.reject = `{"errors": {"code": "This map was already submitted", "notes": "Too long"}}`
	d := newTestDeps(t, b.ServeHTTP)
	s := &fakeSession{}

	require.NoError(t, SubmitCommand{d}.Execute(context.Background(), s, submitMapCommand(d)))

	_, err := d.Views.Dispatch(context.Background(), s, submitModal(s.lastResponse(t).Data.CustomID, ""))
	require.NoError(t, err)

	assert.Equal(t,
		"❌ Something went wrong: \n- `code`: This map was already submitted\n- `notes`: Too long",
		*s.lastEdit(t).Content,
	)
}

func TestSubmitMapShowsRulesFirst(t *testing.T) {
	for _, popup := range []string{"false", "404"} {
		t.Run("has_seen_popup "+popup, func(t *testing.T) {
			b := newSubmitBackend(t, popup)
			d := newTestDeps(t, b.ServeHTTP)
			s := &fakeSession{}

			require.NoError(t, SubmitCommand{d}.Execute(context.Background(), s, submitMapCommand(d)))

			res := s.lastResponse(t)
			require.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, res.Type)
			assert.Equal(t, RULES_TEXT, res.Data.Content)
			assert.Equal(t, discordgo.MessageFlagsEphemeral, res.Data.Flags)
			require.Len(t, res.Data.Components, 1)

			button := res.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
			assert.Equal(t, "I have read the rules", button.Label)

			_, err := d.Views.Dispatch(context.Background(), s, &discordgo.Interaction{
				ID:     "press",
				Type:   discordgo.InteractionMessageComponent,
				Member: &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "u1"}},
				Data:   discordgo.MessageComponentInteractionData{CustomID: button.CustomID, ComponentType: discordgo.ButtonComponent},
			})
			require.NoError(t, err)

			modal := s.lastResponse(t)
			assert.Equal(t, discordgo.InteractionResponseModal, modal.Type)
			assert.Equal(t, "Submit a Map", modal.Data.Title)
			assert.Equal(t, 1, s.deleted, "the rules message goes away once the modal is open")

			select {
			case body := <-b.rulesRead:
				assert.Contains(t, body, `"id":"u1"`)
			case <-time.After(2 * time.Second):
				t.Fatal("the rules were never marked as read")
			}

			assert.Equal(t, 1, d.Views.Count(), "only the modal is still waiting")
		})
	}
}

func TestSubmitMapRejectsUnknownDifficulty(t *testing.T) {
	d := newTestDeps(t, nil)
	s := &fakeSession{}

	i := submitMapCommand(d)
	data := i.ApplicationCommandData()
	data.Options[0].Options[1] = stringOpt("proposed_difficulty", "Top 1")
	i.Data = data

	require.NoError(t, SubmitCommand{d}.Execute(context.Background(), s, i))
	assert.Equal(t, "`Top 1` is not a valid difficulty!", s.lastResponse(t).Data.Content)
	assert.Zero(t, d.Views.Count())
}
