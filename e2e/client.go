package e2e

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// BoardClient drives one line-oriented session against a running server.
type BoardClient struct {
	conn        net.Conn
	reader      *bufio.Reader
	readTimeout time.Duration
}

func Dial(addr string, readTimeout time.Duration) (*BoardClient, error) {
	conn, err := net.DialTimeout("tcp", addr, readTimeout)
	if err != nil {
		return nil, err
	}
	return &BoardClient{
		conn:        conn,
		reader:      bufio.NewReader(conn),
		readTimeout: readTimeout,
	}, nil
}

func (c *BoardClient) SendLine(line string) error {
	_, err := fmt.Fprintln(c.conn, line)
	return err
}

// ReadLine blocks for at most the configured read timeout.
func (c *BoardClient) ReadLine() (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return "", err
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WaitFor reads lines until one contains the fragment, returning every
// line consumed along the way.
func (c *BoardClient) WaitFor(fragment string) ([]string, error) {
	var consumed []string
	for {
		line, err := c.ReadLine()
		if err != nil {
			return consumed, fmt.Errorf("waiting for %q: %w", fragment, err)
		}
		consumed = append(consumed, line)
		if strings.Contains(line, fragment) {
			return consumed, nil
		}
	}
}

// Handshake answers the username prompt and drains the bootstrap output
// up to and including the command help, leaving the stream quiet.
func (c *BoardClient) Handshake(username string) error {
	if _, err := c.WaitFor("Enter a username"); err != nil {
		return err
	}
	if err := c.SendLine(username); err != nil {
		return err
	}
	if _, err := c.WaitFor("%exit"); err != nil {
		return err
	}
	return nil
}

func (c *BoardClient) Close() error {
	return c.conn.Close()
}
