package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/pickbot/core/telegram"
	"github.com/m3rciful/pickbot/core/telegram/middleware"
)

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the handler that routes plain text messages.
// Commands registered in the registry still match when typed without
// Telegram's entity detection; everything else goes to the fallback.
func TextRoute(reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if name, cmdHandler, ok := resolveTextCommand(reg, text); ok {
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmdHandler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// resolveTextCommand maps a plain message to a registered command handler.
// Admin-gated commands never match here: their gate is applied on the slash
// route, so the bare typed form falls through to the fallback instead.
func resolveTextCommand(reg *tg.Registry, text string) (string, tele.HandlerFunc, bool) {
	key, cmd, ok := reg.LookupCommand(text)
	if !ok || cmd.Handler == nil || cmd.AdminOnly {
		return "", nil, false
	}
	return normalizeHandlerName(key), cmd.Handler, true
}
