package telegram

import (
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"descrivi-bot/api/internal/describe"
)

// BotAPI is the part of *tgbotapi.BotAPI the pipeline uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Telegram counts message length in UTF-16 code units and rejects more than 4096.
const maxMessageUnits = 4000

// reply sends plain text threaded as a reply to replyTo.
func reply(bot BotAPI, chatID int64, replyTo int, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, clip(text))
	msg.ReplyToMessageID = replyTo
	return bot.Send(msg)
}

func clip(s string) string {
	units := 0
	for i, r := range s {
		units += utf16.RuneLen(r)
		if units > maxMessageUnits {
			return s[:i] + "…"
		}
	}
	return s
}

// SetCommands registers the command surface shown by Telegram clients.
func SetCommands(bot BotAPI) error {
	cmds := make([]tgbotapi.BotCommand, 0, len(describe.Commands))
	for _, c := range describe.Commands {
		cmds = append(cmds, tgbotapi.BotCommand{Command: string(c.Command), Description: c.Description})
	}
	_, err := bot.Request(tgbotapi.NewSetMyCommands(cmds...))
	return err
}
