package telegram

import (
	"context"
	"slices"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"descrivi-bot/api/internal/describe"
)

// Route is one entry of the routing table. The first matching route wins.
type Route struct {
	Name   string
	Match  func(upd *tgbotapi.Update) bool
	Handle func(ctx context.Context, upd tgbotapi.Update)
}

type Router struct {
	routes []Route
}

func NewRouter(routes ...Route) *Router {
	return &Router{routes: routes}
}

func (r *Router) Routes() []Route { return r.routes }

// Dispatch runs the first matching route and reports its name.
func (r *Router) Dispatch(ctx context.Context, upd tgbotapi.Update) (string, bool) {
	for _, rt := range r.routes {
		if rt.Match(&upd) {
			rt.Handle(ctx, upd)
			return rt.Name, true
		}
	}
	zerolog.Ctx(ctx).Debug().Int("update_id", upd.UpdateID).Msg("no route matched, update dropped")
	return "", false
}

// Filters gate which chats the photo route serves.
type Filters struct {
	AllowedGroupIDs []int64
	PrivacyModeOn   bool
	BotUsername     string
}

// effectiveMessage is the message the update carries, whichever kind it is.
func effectiveMessage(upd *tgbotapi.Update) *tgbotapi.Message {
	switch {
	case upd.Message != nil:
		return upd.Message
	case upd.EditedMessage != nil:
		return upd.EditedMessage
	case upd.ChannelPost != nil:
		return upd.ChannelPost
	case upd.EditedChannelPost != nil:
		return upd.EditedChannelPost
	}
	return nil
}

func (f Filters) allowedChat(chat *tgbotapi.Chat) bool {
	if chat == nil {
		return false
	}
	if chat.IsPrivate() {
		return true
	}
	if chat.IsGroup() || chat.IsSuperGroup() {
		return slices.Contains(f.AllowedGroupIDs, chat.ID)
	}
	return false
}

// PhotoFilter matches photos in private chats and in allow-listed groups.
func (f Filters) PhotoFilter() func(*tgbotapi.Update) bool {
	match := func(upd *tgbotapi.Update) bool {
		m := effectiveMessage(upd)
		return m != nil && len(m.Photo) > 0 && f.allowedChat(m.Chat)
	}
	if f.PrivacyModeOn {
		// with privacy mode on Telegram only delivers photos that address the bot
		return match
	}
	return match
}

// CommandFilter matches /cmd and /cmd@bot in any chat.
func CommandFilter(cmd describe.Command, botUsername string) func(*tgbotapi.Update) bool {
	return func(upd *tgbotapi.Update) bool {
		m := effectiveMessage(upd)
		if m == nil || !m.IsCommand() || m.Command() != string(cmd) {
			return false
		}
		if botUsername == "" {
			return true
		}
		_, at, found := strings.Cut(m.CommandWithAt(), "@")
		return !found || strings.EqualFold(at, botUsername)
	}
}

// Routes builds the routing table: photo first, then one route per command.
func Routes(h *Handler, f Filters) []Route {
	routes := []Route{{Name: "photo", Match: f.PhotoFilter(), Handle: h.DescribeImage}}
	for _, c := range describe.Commands {
		routes = append(routes, Route{
			Name:   string(c.Command),
			Match:  CommandFilter(c.Command, f.BotUsername),
			Handle: h.DescribeImage,
		})
	}
	return routes
}
