package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"bulletin-lab/services"
)

// Acceptor accepts inbound connections and starts one session worker per
// connection. The listener is created at bootstrap, before supervision
// begins, so a bind failure is fatal rather than retried. The accept loop
// itself only ever blocks on the next connection: each accepted socket is
// handed to its own goroutine immediately, so a slow client never delays
// new accepts.
type Acceptor struct {
	log        *slog.Logger
	listener   net.Listener
	service    *services.BoardService
	bufferSize int
}

func NewAcceptor(log *slog.Logger, listener net.Listener, service *services.BoardService, bufferSize int) *Acceptor {
	return &Acceptor{log: log, listener: listener, service: service, bufferSize: bufferSize}
}

func (a *Acceptor) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = a.listener.Close()
	}()

	for {
		conn, err := a.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				// Listener closed by shutdown
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		a.log.Info("Client connected", "remote", conn.RemoteAddr().String())
		worker := NewSessionWorker(a.log, conn, a.service, a.bufferSize)
		go func() {
			_ = worker.Run(ctx)
		}()
	}
}
