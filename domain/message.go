// Package domain contains core concepts of the bulletin board.
// This file defines Message entries and their rendering rules.
// Messages are immutable once created.
package domain

import (
	"fmt"
	"time"
)

// Message is one bulletin entry. It belongs to exactly one group for its
// whole lifetime: appended to that group's log at creation, never moved,
// never mutated, never deleted.
type Message struct {
	ID        int64
	Sender    string
	Subject   string
	Body      string
	CreatedAt time.Time
	Group     Group
}

const postDateLayout = "2006-01-02T15:04:05"

// String renders the one-line bulletin form used for history blocks.
func (m Message) String() string {
	return fmt.Sprintf("Message ID: %d, Sender: %s, Post Date: %s, Subject: %s, Group: %s",
		m.ID, m.Sender, m.CreatedAt.Format(postDateLayout), m.Subject, m.Group.Name)
}

// BroadcastLine is the single line delivered to group members on a new post.
func (m Message) BroadcastLine() string {
	return fmt.Sprintf("%s, Content: %s", m.String(), m.Body)
}

// FullContent is the reply body for %message and %groupmessage.
func (m Message) FullContent() string {
	return m.String() + "\nContent: " + m.Body
}
