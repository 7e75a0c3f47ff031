package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"descrivi-bot/api/internal/describe"
)

var (
	// ErrNoImageFound is the umbrella for every "nothing to describe" outcome.
	ErrNoImageFound       = errors.New("no image found")
	ErrMissingReplyImage  = fmt.Errorf("%w: command is not a reply to a photo", ErrNoImageFound)
	ErrImageURLUnresolved = fmt.Errorf("%w: file path is empty", ErrNoImageFound)
)

const (
	textMissingReplyImage  = "Per favore, i) rispondi a un messaggio che ii) contiene una foto quando usi il comando! Riprova!"
	textImageURLUnresolved = "Non riesco a recuperare l'URL dell'immagine dal server Telegram. Assicurati che l'immagine sia valida, e riprova."
)

// FileGetter resolves a Telegram file id.
type FileGetter interface {
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// CommandOf returns the bot command the message starts with, without the
// slash and the @mention, or CommandNone.
func CommandOf(msg *tgbotapi.Message) describe.Command {
	if msg == nil {
		return describe.CommandNone
	}
	return describe.Command(msg.Command())
}

// ResolveTarget picks the image to describe: the message's own photo when it
// carries no command, otherwise the photo of the message it replies to.
func ResolveTarget(files FileGetter, token string, msg *tgbotapi.Message) (describe.Request, error) {
	req := describe.Request{
		Command:          CommandOf(msg),
		ChatID:           msg.Chat.ID,
		ReplyToMessageID: msg.MessageID,
	}

	var photo tgbotapi.PhotoSize
	if req.Command == describe.CommandNone {
		if len(msg.Photo) == 0 {
			return describe.Request{}, ErrNoImageFound
		}
		photo = msg.Photo[len(msg.Photo)-1]
		req.Caption = strings.TrimSpace(msg.Caption)
	} else {
		target := msg.ReplyToMessage
		if target == nil || len(target.Photo) == 0 {
			return describe.Request{}, ErrMissingReplyImage
		}
		photo = target.Photo[len(target.Photo)-1]
		req.Caption = strings.TrimSpace(target.Caption)
		req.ReplyContext = strings.TrimSpace(msg.CommandArguments())
	}

	file, err := files.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return describe.Request{}, fmt.Errorf("getFile %s: %w", photo.FileID, err)
	}
	if strings.TrimSpace(file.FilePath) == "" {
		return describe.Request{}, ErrImageURLUnresolved
	}
	req.ImageURL = file.Link(token)
	req.ImageKey = photo.FileUniqueID
	if req.ImageKey == "" {
		req.ImageKey = file.FileUniqueID
	}
	return req, nil
}
