package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const textProcessing = "Sto descrivendo la tua immagine..."

type NoticeState int

const (
	NoticeNotSent NoticeState = iota
	NoticeSent
	NoticeRemoved
)

// Notice is the transient "processing" message shown while the model runs.
type Notice struct {
	bot       BotAPI
	chatID    int64
	replyTo   int
	messageID int
	state     NoticeState
}

func NewNotice(bot BotAPI, chatID int64, replyTo int) *Notice {
	return &Notice{bot: bot, chatID: chatID, replyTo: replyTo}
}

func (n *Notice) State() NoticeState { return n.state }

// Post sends the notice. On error the notice stays NotSent.
func (n *Notice) Post(ctx context.Context) error {
	if n.state != NoticeNotSent {
		return nil
	}
	m, err := reply(n.bot, n.chatID, n.replyTo, textProcessing)
	if err != nil {
		return err
	}
	n.messageID = m.MessageID
	n.state = NoticeSent
	return nil
}

// Remove deletes a sent notice. It runs at most once and never fails:
// a deletion error is only logged.
func (n *Notice) Remove(ctx context.Context) {
	if n.state != NoticeSent {
		return
	}
	n.state = NoticeRemoved
	if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(n.chatID, n.messageID)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).
			Int64("chat_id", n.chatID).
			Int("message_id", n.messageID).
			Msg("processing notice removal failed")
	}
}
