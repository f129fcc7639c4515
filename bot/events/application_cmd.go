package events

import (
	"context"
	"runtime/debug"
	"time"

	"mlbot/bot/slashcommands"
	"mlbot/database"
	"mlbot/utils/discordutil"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Upper bound on a single command run. Menus it leaves behind are not bound by this.
const COMMAND_TIMEOUT = 2 * time.Minute

func (h *Handlers) OnInteractionCreateApplicationCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), COMMAND_TIMEOUT)
	defer cancel()

	h.runCommand(ctx, s, i.Interaction)
}

func (h *Handlers) runCommand(ctx context.Context, s slashcommands.Session, i *discordgo.Interaction) {
	defer func() {
		if err := recover(); err != nil {
			log.WithField("interaction", i.ID).Errorf("command handler recovered from a panic.\n%v\n%s", err, debug.Stack())
			discordutil.ReplyWithPanicError(s, i, err)
		}
	}()

	author := discordutil.GetInteractionAuthor(i)
	cmdName := i.ApplicationCommandData().Name

	fields := log.Fields{"command": cmdName}
	if author != nil {
		fields["user"] = author.Username
	}

	cmd, ok := h.Commands[cmdName]
	if !ok {
		log.WithFields(fields).Warn("received unknown command, are the remote commands out of sync?")
		discordutil.SendEphemeral(s, i, "This command no longer exists!")
		return
	}

	start := time.Now()
	err := cmd.Execute(ctx, s, i)
	fields["took"] = time.Since(start)

	if author != nil {
		h.recordUsage(author.ID, cmdName, err == nil)
	}

	if err != nil {
		log.WithFields(fields).WithError(err).Warn("failed to execute command")
		discordutil.ReplyWithError(s, i, err)
		return
	}

	log.WithFields(fields).Info("executed command")
}

// Adds the command to the user's usage history. Looking at usage does not count as usage.
func (h *Handlers) recordUsage(userID, cmdName string, success bool) {
	st := h.Deps.Usage
	if st == nil || cmdName == "usage" {
		return
	}

	h.usageMu.Lock()
	defer h.usageMu.Unlock()

	var usage database.UserUsage
	if cur, err := st.Get(userID); err == nil {
		usage = *cur
	}

	st.Set(userID, usage.Record(cmdName, time.Now(), success))
}
