package events

import (
	"time"

	"mlbot/bot/slashcommands"
	"mlbot/bot/votes"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	SWEEP_SCHEDULE    = "@every 60s"
	CACHE_GC_SCHEDULE = "@every 10m"
	FLUSH_SCHEDULE    = "@every 5m"
)

// Fires on every (re)connect. Commands are synced and tasks scheduled only the first time.
//
// Syncing with overwrite counts against Discord's daily command creation limit,
// so it only happens when the bot is started with --sync.
func (h *Handlers) OnReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{"user": r.User.Username, "guilds": len(r.Guilds)}).Info("logged in")

	h.readyOnce.Do(func() {
		appID := lo.CoalesceOrEmpty(h.Deps.Config.Bot.AppID, r.User.ID)
		if err := slashcommands.SyncWithRemote(s, appID, h.Deps, h.Commands, h.Sync); err != nil {
			log.WithError(err).Error("could not sync slash commands")
		}

		h.scheduleTasks(s)
	})
}

func (h *Handlers) scheduleTasks(s votes.Session) {
	scheduleTask(h, SWEEP_SCHEDULE, "sweep", func() { h.sweep(s) }, true)

	if h.Cache != nil {
		scheduleTask(h, CACHE_GC_SCHEDULE, "cache gc", h.Cache.Collect, false)
	}
	if h.Database != nil {
		scheduleTask(h, FLUSH_SCHEDULE, "flush", h.flush, false)
	}

	h.cron.Start()
}

func scheduleTask(h *Handlers, spec, name string, task func(), runInitial bool) {
	if runInitial {
		go task()
	}

	id, err := h.cron.AddFunc(spec, task)
	if err != nil {
		log.WithField("task", name).WithError(err).Error("could not schedule task")
		return
	}

	h.tasksMu.Lock()
	h.tasks[id] = scheduledTask{name: name, spec: spec}
	h.tasksMu.Unlock()
}

// Drops timed out menus and closes expired map votes.
func (h *Handlers) sweep(s votes.Session) {
	start := time.Now()

	views := h.Deps.Views.Sweep()

	open := 0
	if h.Deps.Votes != nil {
		h.Deps.Votes.Sweep(s)
		open = h.Deps.Votes.Open()
	}

	log.WithFields(log.Fields{
		"views_dropped": views,
		"views_live":    h.Deps.Views.Count(),
		"votes_open":    open,
		"took":          time.Since(start),
	}).Debug("completed sweep")
}

func (h *Handlers) flush() {
	if err := h.Database.Flush(); err != nil {
		log.WithError(err).WithField("dir", h.Database.Dir()).Error("error occurred flushing stores")
	}
}
