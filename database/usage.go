package database

import (
	"cmp"
	"slices"
	"time"
)

// Executions kept per command per user. Older ones are dropped.
const MAX_COMMAND_HISTORY = 50

// Keyed by Discord user ID.
var USAGE_STORE = StoreDefinition[UserUsage]{Name: "usage-users"}

type CommandEntry struct {
	Timestamp int64 `json:"timestamp"`
	Success   bool  `json:"success"`
}

type UserUsage struct {
	CommandHistory map[string][]CommandEntry `json:"slash_command_history"` // key = command name, newest first
}

type CommandStat struct {
	Name  string
	Last  CommandEntry
	Count int
}

func (u UserUsage) TotalCommandsExecuted() (total int) {
	for _, execs := range u.CommandHistory {
		total += len(execs)
	}

	return
}

// Returns a copy of u with an execution of cmdName at t added.
func (u UserUsage) Record(cmdName string, t time.Time, success bool) UserUsage {
	history := make(map[string][]CommandEntry, len(u.CommandHistory)+1)
	for name, execs := range u.CommandHistory {
		history[name] = execs
	}

	execs := append([]CommandEntry{{Timestamp: t.Unix(), Success: success}}, history[cmdName]...)
	history[cmdName] = execs[:min(len(execs), MAX_COMMAND_HISTORY)]

	return UserUsage{CommandHistory: history}
}

// Retrieves the command stats sorted in order of most times executed first.
func (u UserUsage) CommandStats() []CommandStat {
	stats := make([]CommandStat, 0, len(u.CommandHistory))
	for name, execs := range u.CommandHistory {
		if len(execs) == 0 {
			continue
		}

		stats = append(stats, CommandStat{Name: name, Last: execs[0], Count: len(execs)})
	}

	slices.SortFunc(stats, func(a, b CommandStat) int {
		return cmp.Or(b.Count-a.Count, cmp.Compare(a.Name, b.Name))
	})

	return stats
}
