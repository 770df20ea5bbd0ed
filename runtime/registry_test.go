package runtime

import (
	"testing"

	"bulletin-lab/domain"

	"github.com/stretchr/testify/require"
)

const groupA = domain.GroupID("1")

func newMember(registry *Registry, username string, groups ...domain.GroupID) *Session {
	session := NewSession(16)
	session.Username = username
	registry.Register(session)
	for _, groupID := range groups {
		registry.Join(session, groupID)
	}
	return session
}

func TestRegistry_JoinAndMembersOf(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given no session is connected
	req.Zero(registry.Count())
	req.Zero(registry.GroupSize(groupA))

	// When a session registers and joins a group
	session := newMember(registry, "alice", groupA)

	// Then it shows up in the registry and in the member snapshot
	req.Equal(1, registry.Count())
	req.Equal(1, registry.GroupSize(groupA))
	req.True(registry.IsMember(session, groupA))

	members := registry.MembersOf(groupA)
	req.Len(members, 1)
	req.Same(session, members[0])
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	session := newMember(registry, "alice")

	// When the session joins the same group twice
	req.True(registry.Join(session, groupA))
	req.False(registry.Join(session, groupA))

	// Then membership is unchanged
	req.Equal(1, registry.GroupSize(groupA))
}

func TestRegistry_LeaveWithoutMembershipIsNoop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	session := newMember(registry, "alice")

	// Leaving a group never joined reports false
	req.False(registry.Leave(session, groupA))

	// Join then leave restores the state from before the pair
	req.True(registry.Join(session, groupA))
	req.True(registry.Leave(session, groupA))
	req.False(registry.IsMember(session, groupA))
	req.Zero(registry.GroupSize(groupA))
}

func TestRegistry_UnregisterRemovesFromEveryGroup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	groupB := domain.GroupID("2")
	session := newMember(registry, "alice", groupA, groupB)
	other := newMember(registry, "bob", groupA)

	// When the session unregisters
	left, found := registry.Unregister(session)

	// Then it is gone from the registry and from both groups
	req.True(found)
	req.ElementsMatch([]domain.GroupID{groupA, groupB}, left)
	req.Equal(1, registry.Count())
	req.Equal(1, registry.GroupSize(groupA))
	req.Zero(registry.GroupSize(groupB))
	req.True(registry.IsMember(other, groupA))

	// And a second unregister finds nothing, keeping cleanup idempotent
	left, found = registry.Unregister(session)
	req.False(found)
	req.Empty(left)
}

func TestRegistry_BroadcastReachesMembersOnly(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	member1 := newMember(registry, "alice", groupA)
	member2 := newMember(registry, "bob", groupA)
	outsider := newMember(registry, "carol")

	// When a line is broadcast to the group
	delivered := registry.Broadcast(groupA, "hello members")

	// Then both members received it and the outsider did not
	req.Equal(2, delivered)
	req.Equal("hello members", <-member1.Lines())
	req.Equal("hello members", <-member2.Lines())
	select {
	case line := <-outsider.Lines():
		req.Failf("unexpected delivery", "outsider received %q", line)
	default:
	}
}

func TestRegistry_Usernames(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	newMember(registry, "alice", groupA)
	newMember(registry, "bob", groupA)
	newMember(registry, "carol")

	req.ElementsMatch([]string{"alice", "bob"}, registry.Usernames(groupA))
}

func TestSession_SendDropsWhenBufferFull(t *testing.T) {
	req := require.New(t)
	session := NewSession(1)

	// The first line fits the buffer, the second is dropped, and the
	// broadcaster is never blocked
	req.True(session.Send("first"))
	req.False(session.Send("second"))
	req.Equal("first", <-session.Lines())
}

func TestSession_SendAfterCloseIsDropped(t *testing.T) {
	req := require.New(t)
	session := NewSession(4)

	session.Close()
	session.Close() // Close is idempotent

	req.False(session.Send("too late"))
}
