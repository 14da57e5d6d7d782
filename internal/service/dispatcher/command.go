package dispatcher

import "strings"

// Command is one of the fixed service commands recognized in text messages.
type Command string

const (
	CommandNone     Command = ""
	CommandStart    Command = "/start"
	CommandHelp     Command = "/help"
	CommandCancel   Command = "/cancel"
	CommandRegister Command = "/register"
)

// ParseCommand classifies message text against the command vocabulary,
// ignoring surrounding whitespace and letter case. Unrecognized text maps
// to CommandNone.
func ParseCommand(text string) Command {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/start":
		return CommandStart
	case "/help":
		return CommandHelp
	case "/cancel":
		return CommandCancel
	case "/register", "/registration":
		return CommandRegister
	}
	return CommandNone
}
