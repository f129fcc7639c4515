package slashcommands

import (
	"context"
	"errors"
	"fmt"

	"mlbot/api/maplist"
	"mlbot/shared"
	"mlbot/shared/embeds"
	"mlbot/utils/discordutil"
	"mlbot/utils/pagination"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	COMPLETIONS_PER_PAGE         = 12
	COMPLETIONS_PER_BACKEND_PAGE = 50
)

type ProfileCommand struct {
	*Deps
}

func (cmd ProfileCommand) Name() string        { return "profile" }
func (cmd ProfileCommand) Description() string { return "Check an user's Maplist stats" }
func (cmd ProfileCommand) Module() string      { return "User" }
func (cmd ProfileCommand) Help() string        { return "Check an user's (or your own) profile!" }

func (cmd ProfileCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		discordutil.UserOption("user", "The user to check"),
		discordutil.BoolOption("hide", "Only show the profile to yourself"),
	}
}

func (cmd ProfileCommand) Execute(ctx context.Context, s Session, i *discordgo.Interaction) error {
	_, opts := commandOptions(i)

	author := discordutil.GetInteractionAuthor(i)
	target, name := resolvedUser(i, opts.ID("user"))
	if target == nil {
		target, name = author, authorDisplayName(i)
	}

	if target.ID == i.AppID {
		return discordutil.SendEphemeral(s, i, "That's me!")
	}

	if err := discordutil.DeferReply(s, i, opts.Bool("hide")); err != nil {
		return err
	}

	var (
		profile maplist.Profile
		formats []maplist.Format
		exists  = true
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = cmd.Maplist.User(gctx, target.ID, false)

		var notFound *maplist.NotFoundError
		if errors.As(err, &notFound) {
			exists = false
			return nil
		}

		return err
	})
	g.Go(func() (err error) {
		formats, err = cmd.Maplist.Formats(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetching profile of %s: %w", target.ID, err)
	}

	card := embeds.ProfileCard{
		DisplayName: name,
		Profile:     profile,
		Formats:     formats,
		Self:        target.ID == author.ID,
		Exists:      exists,
		Color:       cmd.Config.Bot.EmbedColor,
	}
	if profile.Medals.Wins > 0 {
		banner := lo.FromPtr(profile.BannerURL)
		if banner == "" {
			banner = shared.EMPTY_BANNER_URL
		}

		card.MedalsBannerURL = cmd.Maplist.BannerMedalsURL(banner, profile.Medals)
	}

	selector := discordutil.NewDeferredTabSelector(cmd.Views, author.ID, "Other user info", 0)
	tabs := []discordutil.Tab{
		{Emoji: "ℹ️", Label: "User Overview", Message: discordutil.NewStatic("", embeds.NewProfileEmbed(card))},
	}
	if profile.Medals.Wins > 0 {
		tabs = append(tabs, discordutil.Tab{
			Emoji:   shared.MEDALS.WIN,
			Label:   "Completions",
			Message: cmd.completionsTab(author.ID, target.ID, name, selector, len(tabs)),
		})
	}
	selector.LoadItems(tabs)

	if len(tabs) == 1 {
		return discordutil.EditWith(ctx, s, i, cmd.Views, tabs[0].Message)
	}

	r, err := selector.Rendered(ctx)
	if err != nil {
		return err
	}

	return discordutil.Edit(s, i, cmd.Views, r)
}

// The completions of a user, only fetched once someone opens the tab.
// The paginator keeps the tab selector above it so the user can switch back.
func (cmd ProfileCommand) completionsTab(ownerID, userID, name string, selector *discordutil.TabSelector, idx int) *discordutil.Lazy {
	return discordutil.NewLazy(func(ctx context.Context) (discordutil.Rendered, error) {
		pager := pagination.Pager[maplist.Completion]{
			PerPage:        COMPLETIONS_PER_PAGE,
			PerBackendPage: COMPLETIONS_PER_BACKEND_PAGE,
			Fetch:          pagination.FetchEach(cmd.Maplist.CompletionsPages(userID)),
		}

		entries, state, err := pager.Start(ctx, 1)
		if err != nil {
			return discordutil.Rendered{}, err
		}

		paginator := discordutil.NewPaginator(cmd.Views, discordutil.PaginatorConfig[maplist.Completion]{
			Owner: ownerID,
			Pager: pager,
			Render: func(entries []maplist.Completion) discordutil.Page {
				return discordutil.Page{Content: embeds.CompletionsContent(name, entries)}
			},
			Additional: []*discordutil.View{selector.At(idx).View()},
		}, state)

		return paginator.Rendered(entries), nil
	})
}
