package discordutil

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

const actionSelectTab = "tab"

type Tab struct {
	Emoji   string
	Label   string
	Message Message
}

// The tabs shared by every TabSelector of one message. Filled once, before the message is first shown.
type tabSet struct {
	tabs []Tab
}

// A select menu switching a message between named tabs. It lists every tab except the one shown.
//
// A tab whose message carries its own views, such as a paginator, replaces the message's
// components with them. That tab is expected to include a selector from [TabSelector.At]
// among its views so the user can switch back.
type TabSelector struct {
	Owner       string
	Placeholder string
	Timeout     time.Duration

	set      *tabSet
	current  int
	registry *Registry
	view     *View
}

func NewTabSelector(reg *Registry, owner, placeholder string, tabs []Tab, current int) *TabSelector {
	t := NewDeferredTabSelector(reg, owner, placeholder, current)
	t.LoadItems(tabs)

	return t
}

// Creates a selector whose tabs are supplied later through [TabSelector.LoadItems].
// Its view already exists, so tab messages can reference it before the tab list is complete.
func NewDeferredTabSelector(reg *Registry, owner, placeholder string, current int) *TabSelector {
	t := &TabSelector{
		Owner:       owner,
		Placeholder: placeholder,
		set:         &tabSet{},
		current:     current,
		registry:    reg,
	}
	t.view = NewView(owner, 0)

	return t
}

// Fills the tab list and the selector's menu. Must be called before the selector is shown.
// Calling it again replaces the tabs and rebuilds the menu.
func (t *TabSelector) LoadItems(tabs []Tab) {
	t.set.tabs = tabs
	t.fill()
}

func (t *TabSelector) fill() {
	t.view.Items = nil
	delete(t.view.actions, actionSelectTab)

	options := make([]discordgo.SelectMenuOption, 0, len(t.set.tabs))
	for idx, tab := range t.set.tabs {
		if idx == t.current {
			continue
		}

		opt := discordgo.SelectMenuOption{Label: tab.Label, Value: strconv.Itoa(idx)}
		if tab.Emoji != "" {
			opt.Emoji = &discordgo.ComponentEmoji{Name: tab.Emoji}
		}

		options = append(options, opt)
	}

	t.view.Timeout = t.Timeout
	if len(options) == 0 {
		return
	}

	t.view.AddSelect(actionSelectTab, discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		Placeholder: t.Placeholder,
		Options:     options,
	}, t.onSelect)
}

func (t *TabSelector) Tabs() []Tab {
	return t.set.tabs
}

func (t *TabSelector) Current() int {
	return t.current
}

func (t *TabSelector) View() *View {
	return t.view
}

// A selector for the same tabs with idx as the shown tab.
func (t *TabSelector) At(idx int) *TabSelector {
	next := &TabSelector{
		Owner:       t.Owner,
		Placeholder: t.Placeholder,
		Timeout:     t.Timeout,
		set:         t.set,
		current:     idx,
		registry:    t.registry,
		view:        NewView(t.Owner, t.Timeout),
	}
	next.fill()

	return next
}

// The message shown for the current tab, with this selector placed under it
// unless the tab brings its own views.
func (t *TabSelector) Rendered(ctx context.Context) (Rendered, error) {
	if t.current < 0 || t.current >= len(t.set.tabs) {
		return Rendered{}, fmt.Errorf("tab %d out of range (%d tabs)", t.current, len(t.set.tabs))
	}

	r, err := Resolve(ctx, t.set.tabs[t.current].Message)
	if err != nil {
		return Rendered{}, err
	}

	if len(r.Views) == 0 {
		r.Views = []*View{t.view}
	}

	return r, nil
}

func (t *TabSelector) onSelect(ctx context.Context, s InteractionSession, i *discordgo.Interaction) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return nil
	}

	idx, err := strconv.Atoi(values[0])
	if err != nil || idx < 0 || idx >= len(t.set.tabs) {
		return fmt.Errorf("invalid tab selection %q", values[0])
	}

	if err := DeferComponent(s, i); err != nil {
		return err
	}

	r, err := t.At(idx).Rendered(ctx)
	if err != nil {
		return err
	}

	if err := Edit(s, i, t.registry, r); err != nil {
		return err
	}

	// Drop whatever the old message carried, nested paginators included.
	outgoing := append(MessageViewIDs(i.Message), t.view.ID)
	for _, id := range outgoing {
		if !slices.ContainsFunc(r.Views, func(v *View) bool { return v != nil && v.ID == id }) {
			t.registry.Unregister(id)
		}
	}

	return nil
}
