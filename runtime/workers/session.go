package workers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	apperrors "bulletin-lab/errors"
	"bulletin-lab/runtime"
	"bulletin-lab/services"
)

const usernamePrompt = "Welcome to the bulletin board! Enter a username:"

// SessionWorker drives one connection through its whole lifecycle:
// bootstrap (username prompt, auto-join of the public group, recent
// messages, user list, help), then the blocking read loop dispatching one
// command at a time, then cleanup. All three termination triggers (%exit,
// end-of-stream, I/O error) converge on the same teardown, which runs at
// most once.
type SessionWorker struct {
	log        *slog.Logger
	conn       net.Conn
	service    *services.BoardService
	bufferSize int
}

func NewSessionWorker(log *slog.Logger, conn net.Conn, service *services.BoardService, bufferSize int) *SessionWorker {
	return &SessionWorker{log: log, conn: conn, service: service, bufferSize: bufferSize}
}

func (w *SessionWorker) Run(ctx context.Context) error {
	session := runtime.NewSession(w.bufferSize)
	defer w.teardown(session)

	go w.writePump(session)
	go func() {
		// Server shutdown closes the socket, which unblocks the read loop.
		select {
		case <-ctx.Done():
			_ = w.conn.Close()
		case <-session.Done():
		}
	}()

	scanner := bufio.NewScanner(w.conn)

	session.Send(usernamePrompt)
	if !scanner.Scan() {
		// Peer vanished before sending a username: nothing to announce.
		return nil
	}
	session.Username = strings.TrimSpace(scanner.Text())
	w.service.Connect(session)
	w.log.Info("Session active", "session", session.ID, "username", session.Username)

	for scanner.Scan() {
		if err := w.service.Execute(session, scanner.Text()); err != nil {
			if errors.Is(err, apperrors.ErrSessionClosed) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		w.log.Debug("Session read failed", "session", session.ID, "error", err)
	}
	return nil
}

// writePump is the only writer to the socket. The session's outbound
// channel decouples it from broadcasters: they enqueue, it writes.
func (w *SessionWorker) writePump(session *runtime.Session) {
	for {
		select {
		case <-session.Done():
			return
		case line := <-session.Lines():
			if _, err := fmt.Fprintln(w.conn, line); err != nil {
				// Peer gone: close the socket so the read loop ends too.
				session.Close()
				_ = w.conn.Close()
				return
			}
		}
	}
}

func (w *SessionWorker) teardown(session *runtime.Session) {
	w.service.Disconnect(session)
	session.Close()
	_ = w.conn.Close()
}
