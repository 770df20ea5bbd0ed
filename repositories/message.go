//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_store.go -package=mocks
package repositories

import (
	"log/slog"
	"sync"
	"time"

	"bulletin-lab/domain"

	"github.com/samber/lo"
)

type IMessageStore interface {
	Append(group domain.Group, sender, subject, body string) domain.Message
	Recent(group domain.Group) []domain.Message
	Find(group domain.Group, id int64) (domain.Message, bool)
	Count(group domain.Group) int
}

// MessageStore keeps the append-only per-group message logs in memory.
// One counter shared by every group allocates ids, so ids are strictly
// increasing across the whole server regardless of the target group.
// All state is volatile and lost on process exit.
type MessageStore struct {
	mu           sync.Mutex
	log          *slog.Logger
	nextID       int64
	logs         map[domain.GroupID][]domain.Message
	historyLimit int
}

func NewMessageStore(log *slog.Logger, historyLimit int) *MessageStore {
	return &MessageStore{
		log:          log,
		nextID:       1,
		logs:         make(map[domain.GroupID][]domain.Message),
		historyLimit: historyLimit,
	}
}

// Append allocates the next global id and appends the message to the
// group's log. Id allocation and the append happen under one lock, so
// concurrent posts from different sessions never reuse an id and log
// order always equals id order within a group.
func (s *MessageStore) Append(group domain.Group, sender, subject, body string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := domain.Message{
		ID:        s.nextID,
		Sender:    sender,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
		Group:     group,
	}
	s.nextID++
	s.logs[group.ID] = append(s.logs[group.ID], message)

	s.log.Debug("Message appended", "id", message.ID, "group", group.Name)
	return message
}

// Recent returns the chronologically last historyLimit messages of the
// group in insertion order, fewer if the log is shorter.
func (s *MessageStore) Recent(group domain.Group) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.logs[group.ID]
	start := len(entries) - s.historyLimit
	if start < 0 {
		start = 0
	}
	recent := make([]domain.Message, len(entries)-start)
	copy(recent, entries[start:])
	return recent
}

// Find looks a message up by id within the group's log. A miss is an
// ordinary reply for the caller, never an error.
func (s *MessageStore) Find(group domain.Group, id int64) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.Find(s.logs[group.ID], func(m domain.Message) bool {
		return m.ID == id
	})
}

// Count reports how many messages the group's log holds.
func (s *MessageStore) Count(group domain.Group) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs[group.ID])
}
