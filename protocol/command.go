// Package protocol parses the line-oriented command protocol spoken by
// bulletin board clients. Parsing is purely textual: resolving group
// tokens and message ids against live state happens in services.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one parsed protocol line.
type Command interface {
	isCommand()
}

type Post struct {
	Subject string
	Body    string
}

type GroupPost struct {
	GroupRef string
	Subject  string
	Body     string
}

type Users struct{}

type GroupUsers struct {
	GroupRef string
}

type ReadMessage struct {
	ID int64
}

type GroupReadMessage struct {
	GroupRef string
	ID       int64
}

type Groups struct{}

type GroupJoin struct {
	GroupRef string
}

type GroupLeave struct {
	GroupRef string
}

type Leave struct{}

type Exit struct{}

type Help struct{}

// Noop is produced for blank input lines.
type Noop struct{}

func (Post) isCommand()             {}
func (GroupPost) isCommand()        {}
func (Users) isCommand()            {}
func (GroupUsers) isCommand()       {}
func (ReadMessage) isCommand()      {}
func (GroupReadMessage) isCommand() {}
func (Groups) isCommand()           {}
func (GroupJoin) isCommand()        {}
func (GroupLeave) isCommand()       {}
func (Leave) isCommand()            {}
func (Exit) isCommand()             {}
func (Help) isCommand()             {}
func (Noop) isCommand()             {}

// UsageError is the inline reply for a command with the wrong arity.
type UsageError struct {
	Usage string
}

func (e UsageError) Error() string {
	return "Usage: " + e.Usage
}

// UnknownCommandError is the inline reply for an unrecognized command token.
type UnknownCommandError struct {
	Token string
}

func (e UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command %q. Type %%help to list available commands.", e.Token)
}

// InvalidMessageIDError is the inline reply for a non-numeric message id.
type InvalidMessageIDError struct {
	Raw string
}

func (e InvalidMessageIDError) Error() string {
	return "Invalid message ID."
}

// Parse turns a raw protocol line into a Command. The command token is
// case-insensitive. Arguments are split with a maximum split count equal
// to the command's arity, so the trailing argument (a message body, a
// group name with spaces) is never fragmented. Errors returned here are
// user-visible inline replies, never fatal.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Noop{}, nil
	}

	head := strings.SplitN(trimmed, " ", 2)
	token := strings.ToLower(head[0])
	rest := ""
	if len(head) == 2 {
		rest = strings.TrimSpace(head[1])
	}

	switch token {
	case "%post":
		args, ok := splitArgs(rest, 2)
		if !ok {
			return nil, UsageError{Usage: "%post <subject> <body>"}
		}
		return Post{Subject: args[0], Body: args[1]}, nil

	case "%grouppost":
		args, ok := splitArgs(rest, 3)
		if !ok {
			return nil, UsageError{Usage: "%grouppost <group> <subject> <body>"}
		}
		return GroupPost{GroupRef: args[0], Subject: args[1], Body: args[2]}, nil

	case "%users":
		return Users{}, nil

	case "%groupusers":
		args, ok := splitArgs(rest, 1)
		if !ok {
			return nil, UsageError{Usage: "%groupusers <group>"}
		}
		return GroupUsers{GroupRef: args[0]}, nil

	case "%message":
		args, ok := splitArgs(rest, 1)
		if !ok {
			return nil, UsageError{Usage: "%message <id>"}
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, InvalidMessageIDError{Raw: args[0]}
		}
		return ReadMessage{ID: id}, nil

	case "%groupmessage":
		args, ok := splitArgs(rest, 2)
		if !ok {
			return nil, UsageError{Usage: "%groupmessage <group> <id>"}
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return nil, InvalidMessageIDError{Raw: args[1]}
		}
		return GroupReadMessage{GroupRef: args[0], ID: id}, nil

	case "%groups":
		return Groups{}, nil

	case "%groupjoin":
		args, ok := splitArgs(rest, 1)
		if !ok {
			return nil, UsageError{Usage: "%groupjoin <group>"}
		}
		return GroupJoin{GroupRef: args[0]}, nil

	case "%groupleave":
		args, ok := splitArgs(rest, 1)
		if !ok {
			return nil, UsageError{Usage: "%groupleave <group>"}
		}
		return GroupLeave{GroupRef: args[0]}, nil

	case "%leave":
		return Leave{}, nil

	case "%exit":
		return Exit{}, nil

	case "%help":
		return Help{}, nil

	default:
		return nil, UnknownCommandError{Token: head[0]}
	}
}

// splitArgs splits rest into exactly arity arguments. The last argument
// absorbs any remaining spaces. Returns false when rest has fewer parts.
func splitArgs(rest string, arity int) ([]string, bool) {
	if rest == "" {
		return nil, false
	}
	parts := strings.SplitN(rest, " ", arity)
	if len(parts) < arity {
		return nil, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, false
		}
	}
	return parts, true
}
