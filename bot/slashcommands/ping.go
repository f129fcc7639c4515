package slashcommands

import (
	"context"
	"fmt"
	"time"

	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
)

type PingCommand struct{}

func (PingCommand) Name() string            { return "ping" }
func (PingCommand) Description() string     { return "Replies with pong" }
func (PingCommand) Options() AppCommandOpts { return nil }

func (PingCommand) Execute(_ context.Context, s Session, i *discordgo.Interaction) error {
	content := "Pong!"
	if sent, err := discordgo.SnowflakeTimestamp(i.ID); err == nil {
		content += fmt.Sprintf(" Took %dms to get here.", time.Since(sent).Milliseconds())
	}

	return discordutil.SendEphemeral(s, i, content)
}
