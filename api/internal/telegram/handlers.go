package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"descrivi-bot/api/internal/describe"
)

const textFailure = "Mi dispiace, ma il processo di descrizione dell'immagine è fallito per un errore interno del bot."

// Describer renders a description for a resolved image.
type Describer interface {
	Describe(ctx context.Context, in describe.Request, kind describe.Kind) (string, error)
}

// Handler runs the describe pipeline for a single update.
type Handler struct {
	Bot       BotAPI
	Token     string
	Describer Describer
}

// DescribeImage: resolve target → processing notice → model → reply → remove notice.
func (h *Handler) DescribeImage(ctx context.Context, upd tgbotapi.Update) {
	logger := zerolog.Ctx(ctx)
	msg := upd.Message
	if msg == nil {
		logger.Error().Int("update_id", upd.UpdateID).
			Msg("no message in update, cannot reply (chat unknown)")
		return
	}
	cid := msg.Chat.ID
	l := logger.With().Int64("chat_id", cid).Int("message_id", msg.MessageID).Logger()

	req, err := ResolveTarget(h.Bot, h.Token, msg)
	switch {
	case errors.Is(err, ErrMissingReplyImage):
		l.Info().Msg("command without reply-to photo")
		h.reply(ctx, cid, msg.MessageID, textMissingReplyImage)
		return
	case errors.Is(err, ErrImageURLUnresolved):
		l.Info().Msg("image url unresolved")
		h.reply(ctx, cid, msg.MessageID, textImageURLUnresolved)
		return
	case errors.Is(err, ErrNoImageFound):
		l.Warn().Msg("message without photo routed to describe")
		return
	case err != nil:
		l.Error().Err(err).Msg("resolve image failed")
		h.reply(ctx, cid, msg.MessageID, textFailure)
		return
	}

	notice := NewNotice(h.Bot, cid, msg.MessageID)
	if err := h.run(ctx, req, notice); err != nil {
		l.Error().Err(err).Str("command", string(req.Command)).Msg("image description failed")
		h.reply(ctx, cid, msg.MessageID, textFailure)
	}
	notice.Remove(ctx)
}

func (h *Handler) run(ctx context.Context, req describe.Request, notice *Notice) error {
	if err := notice.Post(ctx); err != nil {
		return err
	}
	kind := describe.SchemaFor(req.Command)
	text, err := h.Describer.Describe(ctx, req, kind)
	if err != nil {
		return err
	}
	_, err = reply(h.Bot, req.ChatID, req.ReplyToMessageID, text)
	return err
}

func (h *Handler) reply(ctx context.Context, chatID int64, replyTo int, text string) {
	if _, err := reply(h.Bot, chatID, replyTo, text); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("send reply failed")
	}
}
