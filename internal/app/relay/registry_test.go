package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_JoinAndNameOf(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Join("conn-1", "alice")

	name, ok := registry.NameOf("conn-1")
	req.True(ok)
	req.Equal("alice", name)

	_, ok = registry.NameOf("conn-2")
	req.False(ok)
}

func TestRegistry_JoinOverwritesPriorPresence(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Join("conn-1", "alice")
	registry.Join("conn-1", "alicia")

	name, ok := registry.NameOf("conn-1")
	req.True(ok)
	req.Equal("alicia", name)
	req.Len(registry.ListOnline(), 1)
}

func TestRegistry_LeaveIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Join("conn-1", "alice")

	name, ok := registry.Leave("conn-1")
	req.True(ok)
	req.Equal("alice", name)

	name, ok = registry.Leave("conn-1")
	req.False(ok)
	req.Empty(name)
}

func TestRegistry_LeaveUnknownConnection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, ok := registry.Leave("never-joined")
	req.False(ok)
}

func TestRegistry_ListOnlineSnapshotIsIndependent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Join("conn-1", "alice")

	snapshot := registry.ListOnline()
	req.Equal(map[ConnID]string{"conn-1": "alice"}, snapshot)

	registry.Join("conn-2", "bob")
	registry.Leave("conn-1")

	// The earlier snapshot must not observe later mutations.
	req.Equal(map[ConnID]string{"conn-1": "alice"}, snapshot)
	req.Equal(map[ConnID]string{"conn-2": "bob"}, registry.ListOnline())
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	const joiners = 50
	const leavers = 25

	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			id := ConnID(fmt.Sprintf("conn-%d", n))
			registry.Join(id, fmt.Sprintf("user-%d", n))

			if n < leavers {
				registry.Leave(id)
			}
		}(i)
	}
	wg.Wait()

	online := registry.ListOnline()
	req.Len(online, joiners-leavers)

	for i := leavers; i < joiners; i++ {
		id := ConnID(fmt.Sprintf("conn-%d", i))
		req.Equal(fmt.Sprintf("user-%d", i), online[id])
	}
}
