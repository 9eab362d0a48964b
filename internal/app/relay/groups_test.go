package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupStore_AddMembersIsIdempotent(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	groups.AddMembers("team", []ConnID{"a", "b"})
	groups.AddMembers("team", []ConnID{"a", "b", "a"})

	req.Equal([]ConnID{"a", "b"}, groups.Members("team"))
}

func TestGroupStore_DuplicateCreateExtendsRoster(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	groups.AddMembers("team", []ConnID{"a"})
	groups.AddMembers("team", []ConnID{"b", "c"})

	// Additive union, insertion order preserved (first add wins position).
	req.Equal([]ConnID{"a", "b", "c"}, groups.Members("team"))
}

func TestGroupStore_MembersExcept(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	groups.AddMembers("team", []ConnID{"a", "b", "c"})

	req.Equal([]ConnID{"b", "c"}, groups.MembersExcept("team", "a"))
	req.Equal([]ConnID{"a", "b", "c"}, groups.MembersExcept("team", "not-a-member"))
}

func TestGroupStore_MembersExceptUnknownGroup(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	req.Empty(groups.MembersExcept("nope", "a"))
	req.Empty(groups.Members("nope"))
}

func TestGroupStore_RemoveConnectionPurgesEveryRoster(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	groups.AddMembers("team", []ConnID{"a", "b"})
	groups.AddMembers("ops", []ConnID{"b", "c"})
	groups.AddMembers("empty-of-b", []ConnID{"a"})

	groups.RemoveConnection("b")

	req.NotContains(groups.Members("team"), ConnID("b"))
	req.NotContains(groups.Members("ops"), ConnID("b"))
	req.Equal([]ConnID{"a"}, groups.Members("team"))
	req.Equal([]ConnID{"c"}, groups.Members("ops"))
	req.Equal([]ConnID{"a"}, groups.Members("empty-of-b"))
}

func TestGroupStore_GroupNamesAreCaseSensitive(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	groups.AddMembers("Team", []ConnID{"a"})
	groups.AddMembers("team", []ConnID{"b"})

	req.Equal([]ConnID{"a"}, groups.Members("Team"))
	req.Equal([]ConnID{"b"}, groups.Members("team"))
}

func TestGroupStore_AllGroupNamesSorted(t *testing.T) {
	req := require.New(t)
	groups := NewGroupStore()

	groups.AddMembers("zeta", []ConnID{"a"})
	groups.AddMembers("alpha", []ConnID{"a"})
	groups.AddMembers("mid", []ConnID{"a"})

	req.Equal([]string{"alpha", "mid", "zeta"}, groups.AllGroupNames())
}
