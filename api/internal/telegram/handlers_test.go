package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"descrivi-bot/api/internal/describe"
)

type fakeDescriber struct {
	bot  *fakeBot
	text string
	err  error
	reqs []describe.Request
	kind []describe.Kind
}

func (f *fakeDescriber) Describe(_ context.Context, in describe.Request, kind describe.Kind) (string, error) {
	f.bot.events = append(f.bot.events, "describe:"+kind.String())
	f.reqs = append(f.reqs, in)
	f.kind = append(f.kind, kind)
	return f.text, f.err
}

func newHandler() (*Handler, *fakeBot, *fakeDescriber) {
	bot := newFakeBot()
	d := &fakeDescriber{bot: bot, text: "Un gatto su un divano."}
	return &Handler{Bot: bot, Token: token, Describer: d}, bot, d
}

func TestDescribeImage_Success(t *testing.T) {
	h, bot, d := newHandler()

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})

	assert.Equal(t, []string{
		"send:" + textProcessing,
		"describe:final",
		"send:Un gatto su un divano.",
		"delete:101",
	}, bot.events)
	for _, m := range bot.sent {
		assert.Equal(t, int64(42), m.ChatID)
		assert.Equal(t, 7, m.ReplyToMessageID)
	}
	require.Len(t, d.reqs, 1)
	assert.Equal(t, "U1", d.reqs[0].ImageKey)
}

func TestDescribeImage_CommandSelectsSchema(t *testing.T) {
	h, bot, d := newHandler()
	msg := commandMessage(privateChat(), "/descrivi_evento", len("/descrivi_evento"), photoMessage(privateChat(), ""))

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: msg})

	assert.Equal(t, []describe.Kind{describe.KindEvent}, d.kind)
	require.Len(t, bot.sent, 2)
	assert.Equal(t, 8, bot.sent[1].ReplyToMessageID)
}

func TestDescribeImage_GuidanceSkipsNotice(t *testing.T) {
	h, bot, d := newHandler()
	msg := commandMessage(privateChat(), "/descrivi", len("/descrivi"), nil)

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: msg})

	assert.Equal(t, []string{textMissingReplyImage}, bot.texts())
	assert.NotContains(t, bot.texts(), textProcessing)
	assert.Empty(t, d.reqs)
}

func TestDescribeImage_UnresolvedURL(t *testing.T) {
	h, bot, d := newHandler()
	bot.file.FilePath = ""

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})

	assert.Equal(t, []string{textImageURLUnresolved}, bot.texts())
	assert.Empty(t, d.reqs)
}

func TestDescribeImage_GetFileFailure(t *testing.T) {
	h, bot, d := newHandler()
	bot.fileErr = errTelegram

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})

	assert.Equal(t, []string{textFailure}, bot.texts())
	assert.Empty(t, d.reqs)
}

func TestDescribeImage_NoPhotoNoReply(t *testing.T) {
	h, bot, _ := newHandler()

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 1, Chat: privateChat(), Text: "ciao"}})

	assert.Empty(t, bot.events)
}

func TestDescribeImage_NoMessage(t *testing.T) {
	h, bot, _ := newHandler()

	assert.NotPanics(t, func() {
		h.DescribeImage(context.Background(), tgbotapi.Update{UpdateID: 5, EditedMessage: photoMessage(privateChat(), "")})
	})
	assert.Empty(t, bot.events)
}

func TestDescribeImage_ModelTimeout(t *testing.T) {
	h, bot, d := newHandler()
	d.err = fmt.Errorf("%w: azure: %w", describe.ErrModelInvocation, context.DeadlineExceeded)

	assert.NotPanics(t, func() {
		h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})
	})

	assert.Equal(t, []string{
		"send:" + textProcessing,
		"describe:final",
		"send:" + textFailure,
		"delete:101",
	}, bot.events)
}

func TestDescribeImage_NoticeFailureStillApologises(t *testing.T) {
	h, bot, d := newHandler()
	bot.sendErr = map[string]error{textProcessing: errTelegram}

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})

	assert.Equal(t, []string{textFailure}, bot.texts())
	assert.Empty(t, d.reqs)
	for _, e := range bot.events {
		assert.NotContains(t, e, "delete:")
	}
}

func TestDescribeImage_ReplyFailure(t *testing.T) {
	h, bot, _ := newHandler()
	bot.sendErr = map[string]error{"Un gatto su un divano.": errTelegram}

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})

	assert.Equal(t, []string{textProcessing, textFailure}, bot.texts())
	assert.Equal(t, "delete:101", bot.events[len(bot.events)-1])
}

func TestDescribeImage_RemovalFailureIsSilent(t *testing.T) {
	h, bot, _ := newHandler()
	bot.delErr = errors.New("message to delete not found")

	h.DescribeImage(context.Background(), tgbotapi.Update{Message: photoMessage(privateChat(), "")})

	assert.Equal(t, []string{textProcessing, "Un gatto su un divano."}, bot.texts())
}

func TestNotice_Lifecycle(t *testing.T) {
	bot := newFakeBot()
	n := NewNotice(bot, 42, 7)
	ctx := context.Background()

	n.Remove(ctx)
	assert.Equal(t, NoticeNotSent, n.State())
	assert.Empty(t, bot.events)

	require.NoError(t, n.Post(ctx))
	assert.Equal(t, NoticeSent, n.State())
	require.NoError(t, n.Post(ctx))

	n.Remove(ctx)
	n.Remove(ctx)
	assert.Equal(t, NoticeRemoved, n.State())
	assert.Equal(t, []string{"send:" + textProcessing, "delete:101"}, bot.events)
}

func TestNotice_PostFailure(t *testing.T) {
	bot := newFakeBot()
	bot.sendErr = map[string]error{textProcessing: errTelegram}
	n := NewNotice(bot, 42, 7)

	assert.ErrorIs(t, n.Post(context.Background()), errTelegram)
	assert.Equal(t, NoticeNotSent, n.State())
}

func TestClip(t *testing.T) {
	assert.Equal(t, "breve", clip("breve"))

	exact := strings.Repeat("è", maxMessageUnits)
	assert.Equal(t, exact, clip(exact))

	got := []rune(clip(strings.Repeat("è", maxMessageUnits+10)))
	assert.Len(t, got, maxMessageUnits+1)
	assert.Equal(t, '…', got[len(got)-1])
}

func TestClip_CountsUTF16Units(t *testing.T) {
	emoji := strings.Repeat("😀", 3000)

	got := clip(emoji)
	units := utf16.Encode([]rune(got))
	assert.LessOrEqual(t, len(units), maxMessageUnits+1)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, maxMessageUnits/2, strings.Count(got, "😀"))

	mixed := strings.Repeat("a", maxMessageUnits-1) + "😀"
	assert.Equal(t, strings.Repeat("a", maxMessageUnits-1)+"…", clip(mixed), "surrogate pair is not split")
}

func TestSetCommands(t *testing.T) {
	bot := newFakeBot()
	require.NoError(t, SetCommands(bot))
	assert.Equal(t, []string{"commands:2"}, bot.events)
}
