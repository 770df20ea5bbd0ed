// Package services implements the command processor: every inbound
// protocol line is parsed and executed here against the group catalog,
// the message store, and the session registry.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"bulletin-lab/domain"
	apperrors "bulletin-lab/errors"
	"bulletin-lab/moderation"
	"bulletin-lab/observability"
	"bulletin-lab/protocol"
	"bulletin-lab/repositories"
	"bulletin-lab/runtime"
)

// BoardService executes parsed commands on behalf of one session. It never
// blocks on another session: replies go to the acting session's outbound
// buffer and broadcasts use the registry's snapshot-then-send delivery.
type BoardService struct {
	log       *slog.Logger
	catalog   *domain.Catalog
	store     repositories.IMessageStore
	registry  *runtime.Registry
	moderator *moderation.Moderator
	metrics   *observability.Metrics
}

func NewBoardService(
	log *slog.Logger,
	catalog *domain.Catalog,
	store repositories.IMessageStore,
	registry *runtime.Registry,
	moderator *moderation.Moderator,
	metrics *observability.Metrics,
) *BoardService {
	return &BoardService{
		log:       log,
		catalog:   catalog,
		store:     store,
		registry:  registry,
		moderator: moderator,
		metrics:   metrics,
	}
}

// Connect runs the fixed bootstrap sequence once the username is assigned:
// register, auto-join the public group, announce the join, then send the
// recent-messages block, the public user list, and the help text.
func (s *BoardService) Connect(session *runtime.Session) {
	public := s.catalog.Public()

	s.registry.Register(session)
	s.registry.Join(session, public.ID)
	s.metrics.SessionOpened()
	s.notify(public.ID, fmt.Sprintf("%s has joined %s.", session.Username, public.Name))

	recent := s.store.Recent(public)
	if len(recent) == 0 {
		session.Send("No recent messages in " + public.Name + ".")
	} else {
		session.Send("Last messages in " + public.Name + ":")
		for _, message := range recent {
			session.Send(message.String())
		}
	}

	s.sendUsers(session, public)
	session.SendAll(protocol.HelpText...)
}

// Disconnect tears down the session's registrations. It is idempotent:
// only the call that actually removes the session from the registry emits
// the "left" notification, so repeated cleanup never duplicates it. The
// notification always targets the public group, whatever the session had
// joined.
func (s *BoardService) Disconnect(session *runtime.Session) {
	left, found := s.registry.Unregister(session)
	if !found {
		return
	}
	s.metrics.SessionClosed()
	s.notify(s.catalog.Public().ID, fmt.Sprintf("%s has left the group.", session.Username))
	s.log.Info("Session closed", "session", session.ID, "username", session.Username, "groups", len(left))
}

// Execute parses and runs one protocol line. Protocol errors become
// inline replies to the acting session only; ErrSessionClosed is returned
// for %exit so the read loop ends.
func (s *BoardService) Execute(session *runtime.Session, line string) error {
	command, err := protocol.Parse(line)
	if err != nil {
		s.metrics.CommandError()
		session.Send(err.Error())
		return nil
	}

	switch c := command.(type) {
	case protocol.Noop:

	case protocol.Post:
		s.post(session, s.catalog.Public(), c.Subject, c.Body)

	case protocol.GroupPost:
		if group, ok := s.resolve(session, c.GroupRef); ok {
			s.post(session, group, c.Subject, c.Body)
		}

	case protocol.Users:
		s.sendUsers(session, s.catalog.Public())

	case protocol.GroupUsers:
		if group, ok := s.resolve(session, c.GroupRef); ok {
			s.sendUsers(session, group)
		}

	case protocol.ReadMessage:
		s.sendMessage(session, s.catalog.Public(), c.ID)

	case protocol.GroupReadMessage:
		if group, ok := s.resolve(session, c.GroupRef); ok {
			s.sendMessage(session, group, c.ID)
		}

	case protocol.Groups:
		for _, group := range s.catalog.List() {
			session.Send(fmt.Sprintf("ID: %s, Name: %s", group.ID, group.Name))
		}

	case protocol.GroupJoin:
		if group, ok := s.resolve(session, c.GroupRef); ok {
			s.join(session, group)
		}

	case protocol.GroupLeave:
		if group, ok := s.resolve(session, c.GroupRef); ok {
			s.leave(session, group)
		}

	case protocol.Leave:
		s.leave(session, s.catalog.Public())

	case protocol.Help:
		session.SendAll(protocol.HelpText...)

	case protocol.Exit:
		return apperrors.ErrSessionClosed
	}
	return nil
}

// resolve maps a group token to a catalog entry, answering the session
// inline when the token matches nothing.
func (s *BoardService) resolve(session *runtime.Session, ref string) (domain.Group, bool) {
	group, ok := s.catalog.Find(ref)
	if !ok {
		s.metrics.CommandError()
		session.Send(fmt.Sprintf("Group %q not found.", ref))
		return domain.Group{}, false
	}
	return group, true
}

// post appends the moderated message to the group's log and broadcasts it
// to every current member, the sender included when it is one.
func (s *BoardService) post(session *runtime.Session, group domain.Group, subject, body string) {
	message := s.store.Append(group, session.Username,
		s.moderator.Censor(subject), s.moderator.Censor(body))
	s.metrics.MessagePosted()

	delivered := s.registry.Broadcast(group.ID, message.BroadcastLine())
	s.metrics.Delivered(delivered)
	s.log.Debug("Message posted", "id", message.ID, "group", group.Name, "delivered", delivered)
}

// join is idempotent: joining a group twice changes nothing and stays
// silent the second time. The actor receives its own notification.
func (s *BoardService) join(session *runtime.Session, group domain.Group) {
	if !s.registry.Join(session, group.ID) {
		return
	}
	s.notify(group.ID, fmt.Sprintf("%s has joined %s.", session.Username, group.Name))
}

// leave notifies before removing membership so the actor still sees its
// own "left" line; leaving a group never joined is a silent no-op.
func (s *BoardService) leave(session *runtime.Session, group domain.Group) {
	if !s.registry.IsMember(session, group.ID) {
		return
	}
	s.notify(group.ID, fmt.Sprintf("%s has left %s.", session.Username, group.Name))
	s.registry.Leave(session, group.ID)
}

func (s *BoardService) sendUsers(session *runtime.Session, group domain.Group) {
	usernames := s.registry.Usernames(group.ID)
	session.Send("Users in " + group.Name + ": " + strings.Join(usernames, ", "))
}

func (s *BoardService) sendMessage(session *runtime.Session, group domain.Group, id int64) {
	message, ok := s.store.Find(group, id)
	if !ok {
		session.Send("Message not found.")
		return
	}
	session.Send(message.FullContent())
}

func (s *BoardService) notify(groupID domain.GroupID, text string) {
	delivered := s.registry.Broadcast(groupID, "[Notification]: "+text)
	s.metrics.Delivered(delivered)
}
