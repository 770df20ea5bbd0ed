package repositories

import (
	"log/slog"
	"sync"
	"testing"

	"bulletin-lab/domain"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var (
	public  = domain.Group{ID: "0", Name: "Public"}
	private = domain.Group{ID: "1", Name: "Group A"}
)

func TestMessageStore_IDsIncreaseAcrossGroups(t *testing.T) {
	req := require.New(t)
	store := NewMessageStore(slog.Default(), 2)

	// When posts alternate between two groups
	first := store.Append(public, "alice", "s1", "b1")
	second := store.Append(private, "bob", "s2", "b2")
	third := store.Append(public, "alice", "s3", "b3")

	// Then ids are strictly increasing server-wide, not per group
	req.Equal(int64(1), first.ID)
	req.Equal(int64(2), second.ID)
	req.Equal(int64(3), third.ID)
}

func TestMessageStore_ConcurrentAppendsNeverReuseIDs(t *testing.T) {
	req := require.New(t)
	store := NewMessageStore(slog.Default(), 2)

	const writers = 10
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			group := public
			if i%2 == 0 {
				group = private
			}
			for j := 0; j < perWriter; j++ {
				store.Append(group, "writer", "subject", "body")
			}
		}(i)
	}
	wg.Wait()

	// Then every id in both logs is unique and the count adds up
	ids := make(map[int64]struct{})
	for _, group := range []domain.Group{public, private} {
		for id := int64(1); id <= writers*perWriter; id++ {
			if message, ok := store.Find(group, id); ok {
				_, seen := ids[message.ID]
				req.False(seen, "id %d assigned twice", message.ID)
				ids[message.ID] = struct{}{}
			}
		}
	}
	req.Len(ids, writers*perWriter)
}

func TestMessageStore_RecentReturnsLastTwoOfThatGroupOnly(t *testing.T) {
	req := require.New(t)
	store := NewMessageStore(slog.Default(), 2)

	store.Append(public, "alice", "old", "old body")
	store.Append(public, "alice", "mid", "mid body")
	store.Append(private, "bob", "other", "unrelated")
	store.Append(public, "alice", "new", "new body")

	// Then recent holds the chronologically last two of the public log,
	// unaffected by the private post in between
	recent := store.Recent(public)
	subjects := lo.Map(recent, func(m domain.Message, _ int) string { return m.Subject })
	req.Equal([]string{"mid", "new"}, subjects)
}

func TestMessageStore_RecentShorterLog(t *testing.T) {
	req := require.New(t)
	store := NewMessageStore(slog.Default(), 2)

	req.Empty(store.Recent(public))

	store.Append(public, "alice", "only", "one")
	req.Len(store.Recent(public), 1)
}

func TestMessageStore_FindMiss(t *testing.T) {
	req := require.New(t)
	store := NewMessageStore(slog.Default(), 2)

	message := store.Append(public, "alice", "subject", "body")

	// A hit in the owning group
	found, ok := store.Find(public, message.ID)
	req.True(ok)
	req.Equal("subject", found.Subject)

	// A miss on an unknown id, and on the wrong group
	_, ok = store.Find(public, 99)
	req.False(ok)
	_, ok = store.Find(private, message.ID)
	req.False(ok)
}

func TestMessageStore_Count(t *testing.T) {
	req := require.New(t)
	store := NewMessageStore(slog.Default(), 2)

	req.Zero(store.Count(public))
	store.Append(public, "alice", "s", "b")
	store.Append(public, "alice", "s", "b")
	req.Equal(2, store.Count(public))
	req.Zero(store.Count(private))
}
