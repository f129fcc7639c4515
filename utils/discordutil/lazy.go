package discordutil

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Content that can be shown as a message, possibly produced on demand.
type Message interface {
	Content(ctx context.Context) (string, error)
	Embeds(ctx context.Context) ([]*discordgo.MessageEmbed, error)
	Views(ctx context.Context) ([]*View, error)
}

func Resolve(ctx context.Context, m Message) (Rendered, error) {
	content, err := m.Content(ctx)
	if err != nil {
		return Rendered{}, err
	}

	embeds, err := m.Embeds(ctx)
	if err != nil {
		return Rendered{}, err
	}

	views, err := m.Views(ctx)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{Page: Page{Content: content, Embeds: embeds}, Views: views}, nil
}

// Message that is already rendered.
type Static struct {
	rendered Rendered
}

func NewStatic(content string, embeds ...*discordgo.MessageEmbed) Static {
	return Static{rendered: Rendered{Page: Page{Content: content, Embeds: embeds}}}
}

func StaticOf(r Rendered) Static {
	return Static{rendered: r}
}

func (m Static) Content(context.Context) (string, error)                  { return m.rendered.Content, nil }
func (m Static) Embeds(context.Context) ([]*discordgo.MessageEmbed, error) { return m.rendered.Embeds, nil }
func (m Static) Views(context.Context) ([]*View, error)                    { return m.rendered.Views, nil }

// Message whose production is put off until one of its accessors is first called.
// The producer runs at most once. Its result, error included, is returned to every later caller.
type Lazy struct {
	load     func(ctx context.Context) (Rendered, error)
	once     sync.Once
	rendered Rendered
	err      error
}

func NewLazy(load func(ctx context.Context) (Rendered, error)) *Lazy {
	return &Lazy{load: load}
}

func (l *Lazy) get(ctx context.Context) (Rendered, error) {
	l.once.Do(func() {
		l.rendered, l.err = l.load(ctx)
	})

	return l.rendered, l.err
}

func (l *Lazy) Content(ctx context.Context) (string, error) {
	r, err := l.get(ctx)
	return r.Content, err
}

func (l *Lazy) Embeds(ctx context.Context) ([]*discordgo.MessageEmbed, error) {
	r, err := l.get(ctx)
	return r.Embeds, err
}

func (l *Lazy) Views(ctx context.Context) ([]*View, error) {
	r, err := l.get(ctx)
	return r.Views, err
}
