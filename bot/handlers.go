// Package bot wires the picker conversation to Telegram endpoints.
package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/pickbot/core/telegram"
	"github.com/m3rciful/pickbot/core/telegram/callbacks"
	"github.com/m3rciful/pickbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/pickbot/core/telegram/helpers"
	"github.com/m3rciful/pickbot/core/telegram/keyboard"
	"github.com/m3rciful/pickbot/flow"
)

const (
	// CallbackToggle flips one catalog item in the selection; payload is the item id.
	CallbackToggle = "pick.toggle"
	// CallbackDone finishes the selection phase.
	CallbackDone = "pick.done"
)

const (
	textIdleHint      = "Nothing to rank right now. Send /start to pick items."
	textCallbackStale = "❌ Something went wrong. Please /start again."
	textStats         = "Version: %s (%s)\nActive sessions: %d"
)

// Handlers bridges Telegram updates and the conversation engine.
type Handlers struct {
	engine *flow.Engine
}

// NewHandlers builds the Telegram handler set around the engine.
func NewHandlers(engine *flow.Engine) *Handlers {
	return &Handlers{engine: engine}
}

// Register wires commands, callbacks, and the text fallback into the registry.
func (h *Handlers) Register(reg *telegram.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Start picking items",
	})
	reg.RegisterCommand("/change", commands.Command{
		Handler:     h.handleChange,
		Description: "Pick again from scratch",
		Aliases:     []string{"reset"},
	})
	reg.RegisterCommand("/current", commands.Command{
		Handler:     h.handleCurrent,
		Description: "Show your current selection",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.handleStats,
		Description: "Runtime diagnostics",
		AdminOnly:   true,
		Hidden:      true,
	})

	if err := reg.RegisterCallback(CallbackToggle, h.handleToggle); err != nil {
		return err
	}
	if err := reg.RegisterCallback(CallbackDone, h.handleDone); err != nil {
		return err
	}

	reg.SetCallbackNotFound(func(c tele.Context) error {
		return tghelpers.SendText(c, textCallbackStale)
	})
	reg.SetTextFallback(h.handleText)
	return nil
}

func (h *Handlers) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	firstName, username := "", ""
	if sender != nil {
		firstName = sender.FirstName
		username = sender.Username
	}
	return render(c, h.engine.Start(ctx, c.Chat().ID, firstName, username))
}

func (h *Handlers) handleChange(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return render(c, h.engine.Reset(ctx, c.Chat().ID))
}

func (h *Handlers) handleCurrent(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return render(c, h.engine.Status(ctx, c.Chat().ID))
}

func (h *Handlers) handleToggle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id, err := callbacks.PayloadInt(c)
	if err != nil {
		// garbled or stale payload; the engine refreshes the keyboard for id 0
		id = 0
	}
	return render(c, h.engine.Toggle(ctx, c.Chat().ID, id))
}

func (h *Handlers) handleDone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return render(c, h.engine.Confirm(ctx, c.Chat().ID))
}

func (h *Handlers) handleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	replies, handled := h.engine.Text(ctx, c.Chat().ID, c.Text())
	if !handled {
		return tghelpers.SendText(c, textIdleHint)
	}
	return render(c, replies)
}

func (h *Handlers) handleStats(c tele.Context) error {
	return tghelpers.SendText(c, statsText(h.engine.ActiveSessions()))
}

// render plays back engine replies in order. Edits address the originating
// message; everything else is a fresh send.
func render(c tele.Context, replies []flow.Reply) error {
	for _, r := range replies {
		markup := pickerMarkup(r.Buttons)
		var err error
		switch {
		case r.Edit && r.Markdown:
			err = tghelpers.EditOrSendMD(c, r.Text, markup)
		case r.Edit:
			err = editOrSend(c, r.Text, markup)
		case r.Markdown:
			err = tghelpers.SendMD(c, r.Text, markup)
		default:
			err = sendWithMarkup(c, r.Text, markup)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup != nil {
		return c.EditOrSend(text, markup)
	}
	return c.EditOrSend(text)
}

func sendWithMarkup(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return tghelpers.SendText(c, text)
	}
	return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
}

// pickerMarkup renders engine buttons as an inline keyboard, one per row.
// The confirm button routes to its own callback key; everything else
// carries the item token as payload.
func pickerMarkup(buttons []flow.Button) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	btns := make([]keyboard.InlineBtn, 0, len(buttons))
	for _, b := range buttons {
		key := CallbackToggle
		data := b.Token
		if b.Token == flow.ConfirmToken {
			key = CallbackDone
			data = ""
		}
		btns = append(btns, keyboard.InlineBtn{Text: b.Label, Unique: key, Data: data})
	}
	return keyboard.InlineButtons(btns)
}
