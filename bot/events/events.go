package events

import (
	"cmp"
	"slices"
	"sync"

	"mlbot/bot/slashcommands"
	"mlbot/database"

	"github.com/robfig/cron/v3"
)

// Gateway event handlers. Add the On* methods to a session with AddHandler.
type Handlers struct {
	Deps     *slashcommands.Deps
	Commands slashcommands.Commands
	Cache    *database.ResponseCache // May be nil.
	Database *database.Database      // Flushed periodically when set.

	// Overwrite the remote slash commands on ready instead of only reading their IDs.
	Sync bool

	cron      *cron.Cron
	tasks     map[cron.EntryID]scheduledTask
	tasksMu   sync.RWMutex
	readyOnce sync.Once
	usageMu   sync.Mutex
}

type scheduledTask struct {
	name, spec string
}

func New(d *slashcommands.Deps, cmds slashcommands.Commands, cache *database.ResponseCache, sync bool) *Handlers {
	return &Handlers{
		Deps:     d,
		Commands: cmds,
		Cache:    cache,
		Sync:     sync,
		cron:     cron.New(),
		tasks:    make(map[cron.EntryID]scheduledTask),
	}
}

// Stops scheduled tasks, waiting for running ones to finish.
func (h *Handlers) Stop() {
	<-h.cron.Stop().Done()
}

// Every task added with scheduleTask, by name. Next runs are only known once the scheduler started.
func (h *Handlers) ScheduledTasks() []slashcommands.ScheduledTask {
	h.tasksMu.RLock()
	defer h.tasksMu.RUnlock()

	entries := h.cron.Entries()
	out := make([]slashcommands.ScheduledTask, 0, len(entries))
	for _, e := range entries {
		task, ok := h.tasks[e.ID]
		if !ok {
			continue
		}

		out = append(out, slashcommands.ScheduledTask{
			Name:     task.name,
			Schedule: task.spec,
			Next:     e.Next,
			Prev:     e.Prev,
		})
	}

	slices.SortFunc(out, func(a, b slashcommands.ScheduledTask) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return out
}
