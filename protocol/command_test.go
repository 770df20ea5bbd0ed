package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Post_BodyKeepsSpaces(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("%post hello world with spaces")
	req.NoError(err)
	req.Equal(Post{Subject: "hello", Body: "world with spaces"}, cmd)
}

func TestParse_CommandTokenCaseInsensitive(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("%POST subj body")
	req.NoError(err)
	req.Equal(Post{Subject: "subj", Body: "body"}, cmd)

	cmd, err = Parse("%Exit")
	req.NoError(err)
	req.Equal(Exit{}, cmd)
}

func TestParse_Post_MissingBodyIsUsageError(t *testing.T) {
	req := require.New(t)

	_, err := Parse("%post onlysubject")
	req.Error(err)
	var usage UsageError
	req.ErrorAs(err, &usage)
	req.Contains(usage.Error(), "%post <subject> <body>")
}

func TestParse_GroupPost(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("%grouppost 1 subj a longer body here")
	req.NoError(err)
	req.Equal(GroupPost{GroupRef: "1", Subject: "subj", Body: "a longer body here"}, cmd)
}

func TestParse_Message_NumericID(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("%message 12")
	req.NoError(err)
	req.Equal(ReadMessage{ID: 12}, cmd)
}

func TestParse_Message_NonNumericID(t *testing.T) {
	req := require.New(t)

	_, err := Parse("%message abc")
	req.Error(err)
	req.EqualError(err, "Invalid message ID.")
}

func TestParse_GroupMessage(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("%groupmessage 2 7")
	req.NoError(err)
	req.Equal(GroupReadMessage{GroupRef: "2", ID: 7}, cmd)

	_, err = Parse("%groupmessage 2 seven")
	req.Error(err)
	var invalid InvalidMessageIDError
	req.ErrorAs(err, &invalid)
}

func TestParse_ZeroArgumentCommands(t *testing.T) {
	req := require.New(t)

	for line, expected := range map[string]Command{
		"%users":  Users{},
		"%groups": Groups{},
		"%leave":  Leave{},
		"%exit":   Exit{},
		"%help":   Help{},
	} {
		cmd, err := Parse(line)
		req.NoError(err, line)
		req.Equal(expected, cmd, line)
	}
}

func TestParse_GroupMembershipCommands(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("%groupjoin 3")
	req.NoError(err)
	req.Equal(GroupJoin{GroupRef: "3"}, cmd)

	cmd, err = Parse("%groupleave Group A")
	req.NoError(err)
	req.Equal(GroupLeave{GroupRef: "Group A"}, cmd)

	cmd, err = Parse("%groupusers 1")
	req.NoError(err)
	req.Equal(GroupUsers{GroupRef: "1"}, cmd)
}

func TestParse_UnknownCommand(t *testing.T) {
	req := require.New(t)

	_, err := Parse("%foo")
	req.Error(err)
	var unknown UnknownCommandError
	req.ErrorAs(err, &unknown)
	req.Contains(err.Error(), "%help")
}

func TestParse_BlankLineIsNoop(t *testing.T) {
	req := require.New(t)

	cmd, err := Parse("   ")
	req.NoError(err)
	req.Equal(Noop{}, cmd)
}
