package discordutil

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mlbot/utils/pagination"

	"github.com/bwmarrin/discordgo"
)

const (
	pageInputID   = "page"
	actionFirst   = "first"
	actionPrev    = "prev"
	actionJump    = "jump"
	actionJumpSub = "jump-submit"
	actionNext    = "next"
	actionLast    = "last"
)

// Turns the entries of one UI page into message text and embeds.
type RenderFunc[E any] func(entries []E) Page

// Everything about a paginated message that stays the same between pages.
type PaginatorConfig[E any] struct {
	Owner   string
	Timeout time.Duration
	Pager   pagination.Pager[E]
	Render  RenderFunc[E]
	// Views composed above the navigation row, such as a tab selector.
	// They are never unregistered by the paginator.
	Additional []*View
}

// A snapshot of a paginated message at one page.
//
// Every navigation builds a new Paginator for the target page and edits the message with it,
// so a Paginator is never changed once built.
type Paginator[E any] struct {
	cfg      PaginatorConfig[E]
	state    pagination.State[E]
	registry *Registry
	view     *View // nil when there is only one page
}

func NewPaginator[E any](reg *Registry, cfg PaginatorConfig[E], state pagination.State[E]) *Paginator[E] {
	p := &Paginator[E]{cfg: cfg, state: state, registry: reg}
	if state.TotalPages > 1 {
		p.view = p.buildView()
	}

	return p
}

func (p *Paginator[E]) State() pagination.State[E] {
	return p.state
}

// The navigation row, or nil if there is nothing to paginate.
func (p *Paginator[E]) View() *View {
	return p.view
}

// The message for this page showing entries, which must be the entries of the current page.
func (p *Paginator[E]) Rendered(entries []E) Rendered {
	views := make([]*View, 0, len(p.cfg.Additional)+1)
	views = append(views, p.cfg.Additional...)
	if p.view != nil {
		views = append(views, p.view)
	}

	return Rendered{Page: p.cfg.Render(entries), Views: views}
}

// Fetches and renders the current page. Used to build the first message of a lazily loaded tab.
func (p *Paginator[E]) Message(ctx context.Context) (Rendered, error) {
	entries, st, err := p.cfg.Pager.GoToPage(ctx, p.state.Page, p.state)
	if err != nil {
		return Rendered{}, err
	}

	return NewPaginator(p.registry, p.cfg, st).Rendered(entries), nil
}

func (p *Paginator[E]) buildView() *View {
	cur, total := p.state.Page, p.state.TotalPages
	v := NewView(p.cfg.Owner, p.cfg.Timeout)

	v.AddButton(actionFirst, navButton("⏮️", cur <= 1), p.navigateTo(func() int { return 1 }))
	v.AddButton(actionPrev, navButton("◀️", cur <= 1), p.navigateTo(func() int { return cur - 1 }))
	v.AddButton(actionJump, discordgo.Button{
		Label: fmt.Sprintf("%d / %d", min(cur, total), total),
		Style: discordgo.SecondaryButton,
	}, p.openJumpModal)
	v.AddButton(actionNext, navButton("▶️", cur >= total), p.navigateTo(func() int { return cur + 1 }))
	v.AddButton(actionLast, navButton("⏭️", cur >= total), p.navigateTo(func() int { return total }))
	v.Handle(actionJumpSub, p.submitJump)

	return v
}

func navButton(emoji string, disabled bool) discordgo.Button {
	return discordgo.Button{
		Emoji:    &discordgo.ComponentEmoji{Name: emoji},
		Style:    discordgo.PrimaryButton,
		Disabled: disabled,
	}
}

func (p *Paginator[E]) navigateTo(target func() int) Action {
	return func(ctx context.Context, s InteractionSession, i *discordgo.Interaction) error {
		if err := DeferComponent(s, i); err != nil {
			return err
		}

		return p.GoTo(ctx, s, i, target())
	}
}

// Moves to page and edits the message of the already deferred interaction i.
// Nothing is edited if fetching fails.
func (p *Paginator[E]) GoTo(ctx context.Context, s InteractionSession, i *discordgo.Interaction, page int) error {
	entries, st, err := p.cfg.Pager.GoToPage(ctx, page, p.state)
	if err != nil {
		return err
	}

	next := NewPaginator(p.registry, p.cfg, st)
	if err := Edit(s, i, p.registry, next.Rendered(entries)); err != nil {
		return err
	}

	if p.view != nil {
		p.registry.Unregister(p.view.ID)
	}

	return nil
}

func (p *Paginator[E]) openJumpModal(_ context.Context, s InteractionSession, i *discordgo.Interaction) error {
	return OpenModal(s, i, &discordgo.InteractionResponseData{
		CustomID: p.view.CustomID(actionJumpSub),
		Title:    "Select a Page",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    pageInputID,
						Label:       "New Page",
						Style:       discordgo.TextInputShort,
						Placeholder: "Page number...",
						Required:    true,
						MinLength:   1,
						MaxLength:   max(2, len(strconv.Itoa(p.state.TotalPages))),
					},
				},
			},
		},
	})
}

func (p *Paginator[E]) submitJump(ctx context.Context, s InteractionSession, i *discordgo.Interaction) error {
	raw := GetModalInputs(i)[pageInputID]

	page, ok := ParsePageInput(raw, p.state.TotalPages)
	if !ok {
		return SendEphemeral(s, i, fmt.Sprintf(
			"`%s` is not a valid page! Pick a number between 1 and %d.", strings.TrimSpace(raw), p.state.TotalPages,
		))
	}

	if err := DeferComponent(s, i); err != nil {
		return err
	}

	return p.GoTo(ctx, s, i, page)
}

// Validates a page typed into the jump modal. Accepts whole numbers in [1, total].
func ParsePageInput(raw string, total int) (int, bool) {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 || page > total {
		return 0, false
	}

	return page, true
}
