package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"neon-arena/domain/event"
)

// nopSink is a minimal distinct-identity sink for registry tests.
type nopSink struct{ name string }

func (s *nopSink) Consume(context.Context, event.DomainEvent) error { return nil }

func TestRegistry_BindAndLookupBothDirections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := &nopSink{name: "a"}

	// When a player binds a connection
	registry.Bind(1, sink)

	// Then both directions resolve
	got, ok := registry.Lookup(1)
	req.True(ok)
	req.Same(sink, got.(*nopSink))

	player, ok := registry.LookupPlayer(sink)
	req.True(ok)
	req.EqualValues(1, player)
	req.Equal(1, registry.Count())
}

func TestRegistry_RebindEvictsTheStaleConnection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	stale := &nopSink{name: "stale"}
	fresh := &nopSink{name: "fresh"}

	// Given a player already bound on a stale connection
	registry.Bind(1, stale)

	// When the player reconnects on a fresh one
	registry.Bind(1, fresh)

	// Then the last bind won and the stale sink resolves to nothing
	got, ok := registry.Lookup(1)
	req.True(ok)
	req.Same(fresh, got.(*nopSink))

	_, ok = registry.LookupPlayer(stale)
	req.False(ok)
	req.Equal(1, registry.Count())
}

func TestRegistry_RebindEvictsThePreviousOwnerOfASink(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	shared := &nopSink{name: "shared"}

	// Given player 1 owning the sink
	registry.Bind(1, shared)

	// When player 2 binds the same sink
	registry.Bind(2, shared)

	// Then player 1 lost its connection entirely
	_, ok := registry.Lookup(1)
	req.False(ok)

	player, ok := registry.LookupPlayer(shared)
	req.True(ok)
	req.EqualValues(2, player)
	req.Equal(1, registry.Count())
}

func TestRegistry_UnbindIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := &nopSink{name: "a"}
	registry.Bind(1, sink)

	registry.Unbind(sink)
	// Unbinding an already-removed sink is a no-op
	registry.Unbind(sink)

	_, ok := registry.Lookup(1)
	req.False(ok)
	req.Zero(registry.Count())
}
