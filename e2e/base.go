package e2e

import (
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseBoardSuite struct {
	suite.Suite
	Config      Config
	readTimeout time.Duration
}

// SetupSuite loads the environment configuration before running tests.
// The suite skips entirely when no server address is configured.
func (s *BaseBoardSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.BoardAddr == "" {
		s.T().Skip("BOARD_ADDR not set, skipping end-to-end suite")
	}

	s.readTimeout, err = time.ParseDuration(s.Config.ReadTimeout)
	s.Require().NoError(err)
}

// Connect opens a session, prints a colorized header for the step in
// logs, and registers cleanup on test end.
func (s *BaseBoardSuite) Connect(name string, username string) *BoardClient {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	client, err := Dial(s.Config.BoardAddr, s.readTimeout)
	s.Require().NoError(err, "Failed to connect to server at "+s.Config.BoardAddr)
	s.T().Cleanup(func() { _ = client.Close() })

	s.Require().NoError(client.Handshake(username))
	return client
}
