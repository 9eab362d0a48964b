/*
Package relay contains the core logic of the message relay.

This file defines the GroupStore, which maintains the named group rosters and the
membership operations the router relies on for group fan-out.
*/
package relay

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/manuav007/EchoFlow/internal/pkg/logx"
)

// group holds one roster. members preserves insertion order for deterministic
// iteration; present mirrors it for O(1) duplicate checks.
type group struct {
	members []ConnID
	present map[ConnID]struct{}
}

// GroupStore maps group names to ordered member rosters.
// Group names are compared exactly (case-sensitive). Groups persist for the
// process lifetime; membership only grows via AddMembers and shrinks only through
// disconnect cleanup (RemoveConnection).
type GroupStore struct {
	// groups maps group name to its roster.
	groups map[string]*group

	// mu protects concurrent access to the groups map and every roster in it.
	mu sync.RWMutex

	// structured logger with GroupStore context.
	logger zerolog.Logger
}

// NewGroupStore constructs and returns a new GroupStore instance.
func NewGroupStore() *GroupStore {
	return &GroupStore{
		groups: make(map[string]*group),
		logger: logx.Logger().With().Str("component", "GroupStore").Logger(),
	}
}

// createOrGet returns the roster for name, creating an empty one on first use.
// Callers must hold g.mu.
func (g *GroupStore) createOrGet(name string) *group {
	roster, ok := g.groups[name]
	if !ok {
		roster = &group{present: make(map[ConnID]struct{})}
		g.groups[name] = roster
		g.logger.Info().Str("group", name).Msg("Group created.")
	}

	return roster
}

// AddMembers adds each identity to the named group's roster, creating the group if
// it does not exist yet. Adding an already-present identity is a no-op for that
// identity, so repeated create-group calls extend the roster additively.
func (g *GroupStore) AddMembers(name string, members []ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	roster := g.createOrGet(name)

	for _, id := range members {
		if _, ok := roster.present[id]; ok {
			continue
		}
		roster.present[id] = struct{}{}
		roster.members = append(roster.members, id)
	}
}

// Members returns the current roster of the named group in insertion order, or an
// empty slice if the group is unknown.
func (g *GroupStore) Members(name string) []ConnID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	roster, ok := g.groups[name]
	if !ok {
		return nil
	}

	out := make([]ConnID, len(roster.members))
	copy(out, roster.members)
	return out
}

// MembersExcept returns the current roster of the named group minus the excluded
// identity, in insertion order. An unknown group yields an empty slice, not an error.
func (g *GroupStore) MembersExcept(name string, excluded ConnID) []ConnID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	roster, ok := g.groups[name]
	if !ok {
		return nil
	}

	return lo.Filter(roster.members, func(id ConnID, _ int) bool {
		return id != excluded
	})
}

// RemoveConnection removes the identity from every group's roster. It is called
// synchronously during disconnect handling so no later group fan-out can target
// the departed connection.
func (g *GroupStore) RemoveConnection(id ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for name, roster := range g.groups {
		if _, ok := roster.present[id]; !ok {
			continue
		}

		delete(roster.present, id)
		roster.members = lo.Filter(roster.members, func(member ConnID, _ int) bool {
			return member != id
		})

		g.logger.Debug().
			Str("group", name).
			Str("conn_id", string(id)).
			Msg("Removed disconnected member from roster.")
	}
}

// AllGroupNames returns the names of every known group, sorted for deterministic
// listings sent to clients.
func (g *GroupStore) AllGroupNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := lo.Keys(g.groups)
	sort.Strings(names)
	return names
}
