package protocol

// HelpText is sent line by line at the end of the connection bootstrap
// and again on every %help.
var HelpText = []string{
	"Available commands:",
	"  %post <subject> <body>               post to the public group",
	"  %grouppost <group> <subject> <body>  post to a specific group",
	"  %users                               list users in the public group",
	"  %groupusers <group>                  list users in a group",
	"  %message <id>                        show a public message by id",
	"  %groupmessage <group> <id>           show a group message by id",
	"  %groups                              list all groups",
	"  %groupjoin <group>                   join a group",
	"  %groupleave <group>                  leave a group",
	"  %leave                               leave the public group",
	"  %help                                show this help",
	"  %exit                                disconnect",
}
