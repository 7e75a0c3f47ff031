package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeBot records every outbound call in order.
type fakeBot struct {
	events []string
	sent   []tgbotapi.MessageConfig

	nextID  int
	sendErr map[string]error // keyed by text
	delErr  error
	cmdErr  error
	file    tgbotapi.File
	fileErr error
	files   []string
}

func newFakeBot() *fakeBot {
	return &fakeBot{nextID: 100, file: tgbotapi.File{FileID: "big", FileUniqueID: "U1", FilePath: "photos/file_1.jpg"}}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, fmt.Errorf("unexpected chattable %T", c)
	}
	b.events = append(b.events, "send:"+m.Text)
	if err := b.sendErr[m.Text]; err != nil {
		return tgbotapi.Message{}, err
	}
	b.sent = append(b.sent, m)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID, Chat: &tgbotapi.Chat{ID: m.ChatID}, Text: m.Text}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	switch v := c.(type) {
	case tgbotapi.DeleteMessageConfig:
		b.events = append(b.events, fmt.Sprintf("delete:%d", v.MessageID))
		if b.delErr != nil {
			return nil, b.delErr
		}
	case tgbotapi.SetMyCommandsConfig:
		b.events = append(b.events, fmt.Sprintf("commands:%d", len(v.Commands)))
		if b.cmdErr != nil {
			return nil, b.cmdErr
		}
	default:
		return nil, fmt.Errorf("unexpected chattable %T", c)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFile(cfg tgbotapi.FileConfig) (tgbotapi.File, error) {
	b.files = append(b.files, cfg.FileID)
	if b.fileErr != nil {
		return tgbotapi.File{}, b.fileErr
	}
	return b.file, nil
}

func (b *fakeBot) texts() []string {
	out := make([]string, 0, len(b.sent))
	for _, m := range b.sent {
		out = append(out, m.Text)
	}
	return out
}

var errTelegram = errors.New("telegram: Bad Request")

func privateChat() *tgbotapi.Chat { return &tgbotapi.Chat{ID: 42, Type: "private"} }

func photos() []tgbotapi.PhotoSize {
	return []tgbotapi.PhotoSize{
		{FileID: "small", FileUniqueID: "U0", Width: 90, Height: 90},
		{FileID: "big", FileUniqueID: "U1", Width: 1280, Height: 1280},
	}
}

func photoMessage(chat *tgbotapi.Chat, caption string) *tgbotapi.Message {
	return &tgbotapi.Message{MessageID: 7, Chat: chat, Photo: photos(), Caption: caption}
}

// commandMessage builds "/cmd[@bot] args" replying to target.
func commandMessage(chat *tgbotapi.Chat, text string, cmdLen int, target *tgbotapi.Message) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID:      8,
		Chat:           chat,
		Text:           text,
		Entities:       []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		ReplyToMessage: target,
	}
}
