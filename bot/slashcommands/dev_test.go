package slashcommands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A session that can also overwrite slash commands, like the real one.
type syncingSession struct {
	*fakeSession
	*fakeSyncer
}

type fakeTasks []ScheduledTask

func (f fakeTasks) ScheduledTasks() []ScheduledTask { return f }

func devCommand(sub, userID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return slashCommand("dev", userID, &discordgo.ApplicationCommandInteractionDataOption{
		Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts,
	})
}

func newDevCommand(t *testing.T) (DevCommand, *Deps) {
	t.Helper()
	t.Setenv("DEV_ID", "")

	d := newTestDeps(t, nil)
	d.Config.Bot.CoOwnerIDs = []string{"owner"}

	return DevCommand{d, All(d)}, d
}

func TestDevRejectsOthers(t *testing.T) {
	cmd, _ := newDevCommand(t)
	s := &syncingSession{&fakeSession{}, &fakeSyncer{}}

	require.NoError(t, cmd.Execute(context.Background(), s, devCommand("sync", "u1")))

	res := s.lastResponse(t)
	assert.Equal(t, NOT_A_DEV_TEXT, res.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, res.Data.Flags)
	assert.Empty(t, s.names, "nothing may be synced")
}

func TestDevAllowsDevIDFromEnv(t *testing.T) {
	cmd, _ := newDevCommand(t)
	t.Setenv("DEV_ID", "u9")

	s := &fakeSession{}
	require.NoError(t, cmd.Execute(context.Background(), s, devCommand("tasks", "u9")))
	assert.Equal(t, NO_TASKS_TEXT, s.lastResponse(t).Data.Content)

	s = &fakeSession{}
	require.NoError(t, cmd.Execute(context.Background(), s, devCommand("tasks", "u1")))
	assert.Equal(t, NOT_A_DEV_TEXT, s.lastResponse(t).Data.Content)
}

func TestDevSync(t *testing.T) {
	t.Run("globally", func(t *testing.T) {
		cmd, d := newDevCommand(t)
		s := &syncingSession{&fakeSession{}, &fakeSyncer{}}

		require.NoError(t, cmd.Execute(context.Background(), s, devCommand("sync", "owner")))

		assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, s.lastResponse(t).Type)
		require.Len(t, s.names, 1, "only the global commands are overwritten")
		assert.Contains(t, s.names[""], "leaderboard")
		assert.Contains(t, s.names[""], "dev")
		assert.NotContains(t, s.names[""], "submit")

		assert.Equal(t, fmt.Sprintf("Synced %d commands (globally).", len(s.names[""])), *s.lastEdit(t).Content)
		assert.Equal(t, "</leaderboard:id-leaderboard>", d.CommandMention("leaderboard"))
	})

	t.Run("maplist", func(t *testing.T) {
		cmd, _ := newDevCommand(t)
		s := &syncingSession{&fakeSession{}, &fakeSyncer{}}

		require.NoError(t, cmd.Execute(context.Background(), s, devCommand("sync", "owner", stringOpt("where", SYNC_MAPLIST))))

		require.Len(t, s.names, 1)
		assert.ElementsMatch(t, []string{"map-vote", "submit"}, s.names["1"])
		assert.Equal(t, "Synced 2 commands (in the Maplist).", *s.lastEdit(t).Content)
	})

	t.Run("here", func(t *testing.T) {
		cmd, _ := newDevCommand(t)
		s := &syncingSession{&fakeSession{}, &fakeSyncer{}}

		i := devCommand("sync", "owner", stringOpt("where", SYNC_HERE))
		i.GuildID = "1"
		require.NoError(t, cmd.Execute(context.Background(), s, i))

		assert.ElementsMatch(t, []string{"map-vote", "submit"}, s.names["1"])
		assert.Equal(t, "Synced 2 commands (here).", *s.lastEdit(t).Content)
	})

	t.Run("here outside a server", func(t *testing.T) {
		cmd, _ := newDevCommand(t)
		s := &syncingSession{&fakeSession{}, &fakeSyncer{}}

		require.NoError(t, cmd.Execute(context.Background(), s, devCommand("sync", "owner", stringOpt("where", SYNC_HERE))))

		assert.Equal(t, NO_GUILD_TEXT, s.lastResponse(t).Data.Content)
		assert.Empty(t, s.names)
	})
}

func TestDevTasks(t *testing.T) {
	cmd, d := newDevCommand(t)
	next := time.Unix(1_700_000_600, 0)
	d.Tasks = fakeTasks{
		{Name: "flush-database", Schedule: "@every 5m", Next: next},
		{Name: "refresh-config", Schedule: "@every 1h"},
	}

	s := &fakeSession{}
	require.NoError(t, cmd.Execute(context.Background(), s, devCommand("tasks", "owner")))

	res := s.lastResponse(t)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, res.Data.Flags)
	assert.Equal(t,
		"**__Bot tasks:__**\n"+
			"- 🟢 **flush-database** `@every 5m` next <t:1700000600:R>\n"+
			"- 🔴 **refresh-config** `@every 1h` not running",
		res.Data.Content,
	)
}

func TestDevIsHiddenFromHelp(t *testing.T) {
	cmd, _ := newDevCommand(t)

	_, ok := any(cmd).(Documented)
	assert.False(t, ok)
}
