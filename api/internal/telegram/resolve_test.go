package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"descrivi-bot/api/internal/describe"
)

const token = "123:abc"

func TestResolveTarget_OwnPhoto(t *testing.T) {
	bot := newFakeBot()

	req, err := ResolveTarget(bot, token, photoMessage(privateChat(), "  la mia gatta "))
	require.NoError(t, err)

	assert.Equal(t, describe.CommandNone, req.Command)
	assert.Equal(t, "la mia gatta", req.Caption)
	assert.Empty(t, req.ReplyContext)
	assert.Equal(t, "https://api.telegram.org/file/bot123:abc/photos/file_1.jpg", req.ImageURL)
	assert.Equal(t, "U1", req.ImageKey)
	assert.Equal(t, int64(42), req.ChatID)
	assert.Equal(t, 7, req.ReplyToMessageID)
	assert.Equal(t, []string{"big"}, bot.files, "largest size is resolved")
}

func TestResolveTarget_OwnPhotoWithoutCaption(t *testing.T) {
	req, err := ResolveTarget(newFakeBot(), token, photoMessage(privateChat(), ""))
	require.NoError(t, err)
	assert.Empty(t, req.Caption)
}

func TestResolveTarget_NoPhoto(t *testing.T) {
	_, err := ResolveTarget(newFakeBot(), token, &tgbotapi.Message{MessageID: 1, Chat: privateChat(), Text: "ciao"})
	assert.ErrorIs(t, err, ErrNoImageFound)
	assert.NotErrorIs(t, err, ErrMissingReplyImage)
}

func TestResolveTarget_EventCommandOnReply(t *testing.T) {
	bot := newFakeBot()
	target := photoMessage(privateChat(), "locandina")
	msg := commandMessage(privateChat(), "/descrivi_evento", len("/descrivi_evento"), target)

	req, err := ResolveTarget(bot, token, msg)
	require.NoError(t, err)

	assert.Equal(t, describe.CommandDescribeEvent, req.Command)
	assert.Equal(t, describe.KindEvent, describe.SchemaFor(req.Command))
	assert.Equal(t, "locandina", req.Caption)
	assert.Empty(t, req.ReplyContext)
	assert.Equal(t, 8, req.ReplyToMessageID, "reply threads to the command message")
}

func TestResolveTarget_CommandArgumentsBecomeReplyContext(t *testing.T) {
	target := photoMessage(privateChat(), "")
	msg := commandMessage(privateChat(), "/descrivi@DescriviBot   è a Milano ", len("/descrivi@DescriviBot"), target)

	req, err := ResolveTarget(newFakeBot(), token, msg)
	require.NoError(t, err)

	assert.Equal(t, describe.CommandDescribe, req.Command)
	assert.Equal(t, "è a Milano", req.ReplyContext)
	assert.Empty(t, req.Caption)
}

func TestResolveTarget_CommandWithoutReplyPhoto(t *testing.T) {
	tests := []struct {
		name   string
		target *tgbotapi.Message
	}{
		{"no reply", nil},
		{"reply without photo", &tgbotapi.Message{MessageID: 3, Chat: privateChat(), Text: "ciao"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := newFakeBot()
			_, err := ResolveTarget(bot, token, commandMessage(privateChat(), "/descrivi", len("/descrivi"), tt.target))
			assert.ErrorIs(t, err, ErrMissingReplyImage)
			assert.ErrorIs(t, err, ErrNoImageFound)
			assert.Empty(t, bot.files)
		})
	}
}

func TestResolveTarget_CommandIgnoresOwnPhoto(t *testing.T) {
	msg := commandMessage(privateChat(), "/descrivi", len("/descrivi"), nil)
	msg.Photo = photos()

	_, err := ResolveTarget(newFakeBot(), token, msg)
	assert.ErrorIs(t, err, ErrMissingReplyImage)
}

func TestResolveTarget_EmptyFilePath(t *testing.T) {
	bot := newFakeBot()
	bot.file.FilePath = ""

	_, err := ResolveTarget(bot, token, photoMessage(privateChat(), ""))
	assert.ErrorIs(t, err, ErrImageURLUnresolved)
}

func TestResolveTarget_GetFileError(t *testing.T) {
	bot := newFakeBot()
	bot.fileErr = errTelegram

	_, err := ResolveTarget(bot, token, photoMessage(privateChat(), ""))
	assert.ErrorIs(t, err, errTelegram)
	assert.NotErrorIs(t, err, ErrNoImageFound)
}

func TestCommandOf(t *testing.T) {
	assert.Equal(t, describe.CommandNone, CommandOf(nil))
	assert.Equal(t, describe.CommandNone, CommandOf(photoMessage(privateChat(), "/descrivi")))
	assert.Equal(t, describe.CommandDescribe,
		CommandOf(commandMessage(privateChat(), "/descrivi@Bot", len("/descrivi@Bot"), nil)))
}
