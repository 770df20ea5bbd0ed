// Package runtime holds the live session state of the server: the session
// registry, per-group membership, and the snapshot-then-send broadcast.
package runtime

import (
	"sync"

	"bulletin-lab/domain"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// Registry is the live set of connected sessions plus per-group member
// sets. The lock protects bookkeeping only: broadcasts take a snapshot
// under the read lock and perform every send outside it, so a slow or
// failed connection never holds the registry hostage.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]*Session    // session id -> session
	groupMembers map[domain.GroupID]Set // group -> member session ids
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:     make(map[string]*Session),
		groupMembers: make(map[domain.GroupID]Set),
	}
}

// Register adds a session to the live set.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Unregister removes the session from the live set and from every group it
// joined. It returns the groups left behind and whether the session was
// still registered, so disconnect cleanup stays idempotent: the second
// call finds nothing and reports false.
func (r *Registry) Unregister(s *Session) ([]domain.GroupID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return nil, false
	}
	delete(r.sessions, s.ID)

	var left []domain.GroupID
	for groupID, members := range r.groupMembers {
		if _, ok := members[s.ID]; !ok {
			continue
		}
		delete(members, s.ID)
		left = append(left, groupID)

		// No empty sets left behind in the map
		if len(members) == 0 {
			delete(r.groupMembers, groupID)
		}
	}
	return left, true
}

// Join adds the session to the group's member set, creating the set on
// first use. Reports false when the session was already a member.
func (r *Registry) Join(s *Session, groupID domain.GroupID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.groupMembers[groupID]
	if !ok {
		members = make(Set)
		r.groupMembers[groupID] = members
	}
	if _, joined := members[s.ID]; joined {
		return false
	}
	members[s.ID] = struct{}{}
	return true
}

// Leave removes the session from the group's member set. Reports false
// when the session was not a member, making %groupleave a no-op then.
func (r *Registry) Leave(s *Session, groupID domain.GroupID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.groupMembers[groupID]
	if !ok {
		return false
	}
	if _, joined := members[s.ID]; !joined {
		return false
	}
	delete(members, s.ID)
	if len(members) == 0 {
		delete(r.groupMembers, groupID)
	}
	return true
}

// IsMember reports whether the session currently belongs to the group.
func (r *Registry) IsMember(s *Session, groupID domain.GroupID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.groupMembers[groupID]
	if !ok {
		return false
	}
	_, joined := members[s.ID]
	return joined
}

// MembersOf returns a snapshot of the sessions currently in the group,
// evaluated at call time. Sessions joining or leaving afterwards are not
// reflected in the returned slice.
func (r *Registry) MembersOf(groupID domain.GroupID) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.groupMembers[groupID]
	if !ok {
		return nil
	}
	snapshot := make([]*Session, 0, len(members))
	for id := range members {
		if session, exists := r.sessions[id]; exists {
			snapshot = append(snapshot, session)
		}
	}
	return snapshot
}

// Usernames projects the group's current members to their usernames.
// Order is not guaranteed.
func (r *Registry) Usernames(groupID domain.GroupID) []string {
	return lo.Map(r.MembersOf(groupID), func(s *Session, _ int) string {
		return s.Username
	})
}

// Broadcast delivers the line to every current member of the group and
// returns how many members actually received it. Sends happen against a
// snapshot, outside the registry lock; a member that disconnects or stalls
// mid-broadcast simply misses that line.
func (r *Registry) Broadcast(groupID domain.GroupID, line string) int {
	delivered := 0
	for _, member := range r.MembersOf(groupID) {
		if member.Send(line) {
			delivered++
		}
	}
	return delivered
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// GroupSize reports the number of members in the group.
func (r *Registry) GroupSize(groupID domain.GroupID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groupMembers[groupID])
}
