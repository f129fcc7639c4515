package discordutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const ExpiredViewMessage = "This menu has expired. Run the command again!"

func NotOwnerMessage(ownerID string) string {
	return fmt.Sprintf("The command was executed by %s. Run the command yourself!", Mention(ownerID))
}

type registeredView struct {
	view     *View
	lastSeen time.Time
}

// Keeps every view currently attached to a message so component and modal
// interactions can be routed back to it by custom ID.
//
// The registry is safe for concurrent use. Views are dropped by [Registry.Unregister]
// once replaced, or by [Registry.Sweep] after they time out.
type Registry struct {
	views       map[string]registeredView
	maxLifetime time.Duration // Applies to views without a timeout. Zero keeps them forever.
	mu          sync.RWMutex
	now         func() time.Time
}

func NewRegistry(maxLifetime time.Duration) *Registry {
	return &Registry{
		views:       make(map[string]registeredView),
		maxLifetime: maxLifetime,
		now:         time.Now,
	}
}

// Adds or refreshes views. Views with nothing to route, such as nil ones, are ignored.
// A view without components is kept when it handles a modal.
func (r *Registry) Register(views ...*View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for _, v := range views {
		if v.Inert() {
			continue
		}

		r.views[v.ID] = registeredView{view: v, lastSeen: now}
	}
}

func (r *Registry) Unregister(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.views, id)
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.views)
}

func (r *Registry) expired(rv registeredView, now time.Time) bool {
	idle := now.Sub(rv.lastSeen)
	if rv.view.Timeout > 0 {
		return idle > rv.view.Timeout
	}

	return r.maxLifetime > 0 && idle > r.maxLifetime
}

// Returns a live view by ID. Looking a view up does not count as using it, see [Registry.Touch].
func (r *Registry) Get(id string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.views[id]
	if !ok {
		return nil, false
	}
	if r.expired(rv, r.now()) {
		delete(r.views, id)
		return nil, false
	}

	return rv.view, true
}

// Restarts the idle clock of a view that is still registered.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rv, ok := r.views[id]; ok {
		rv.lastSeen = r.now()
		r.views[id] = rv
	}
}

// Drops every timed out view, returning how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, rv := range r.views {
		if r.expired(rv, now) {
			delete(r.views, id)
			removed++
		}
	}

	return removed
}

// Routes a component or modal interaction to the view action named by its custom ID.
//
// Returns false if the interaction does not belong to any view. Unknown or expired views and
// users other than the owner get an ephemeral notice and the action is not run.
// Rejected interactions leave the view's idle clock untouched.
func (r *Registry) Dispatch(ctx context.Context, s InteractionSession, i *discordgo.Interaction) (bool, error) {
	viewID, action, ok := ParseCustomID(InteractionCustomID(i))
	if !ok {
		return false, nil
	}

	v, ok := r.Get(viewID)
	if !ok {
		return true, SendEphemeral(s, i, ExpiredViewMessage)
	}

	author := GetInteractionAuthor(i)
	if author == nil || !v.OwnedBy(author.ID) {
		return true, SendEphemeral(s, i, NotOwnerMessage(v.Owner))
	}

	// Only the owner keeps a view alive.
	r.Touch(viewID)

	fn, ok := v.actions[action]
	if !ok {
		return true, fmt.Errorf("view %s has no action %q", viewID, action)
	}

	log.WithFields(log.Fields{
		"view":   viewID,
		"action": action,
		"user":   author.ID,
	}).Debug("dispatching view action")

	return true, fn(ctx, s, i)
}
