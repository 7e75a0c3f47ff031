package describe

// Command is a bot command name without the leading slash.
type Command string

const (
	CommandNone          Command = ""
	CommandDescribe      Command = "descrivi"
	CommandDescribeEvent Command = "descrivi_evento"
)

// CommandInfo is a command exposed to the chat platform.
type CommandInfo struct {
	Command     Command
	Description string
}

// Commands is the command surface registered at startup.
var Commands = []CommandInfo{
	{Command: CommandDescribe, Description: "Descrivi questa immagine in modo generico"},
	{Command: CommandDescribeEvent, Description: "Descrivi questa immagine in modo strutturato come evento"},
}

// SchemaFor maps a command to the structured-output contract. Unknown and
// absent commands fall back to KindFinal, which lets the model choose.
func SchemaFor(c Command) Kind {
	switch c {
	case CommandDescribe:
		return KindGeneric
	case CommandDescribeEvent:
		return KindEvent
	default:
		return KindFinal
	}
}
