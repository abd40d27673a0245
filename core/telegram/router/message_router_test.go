package router

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/pickbot/core/telegram"
	"github.com/m3rciful/pickbot/core/telegram/commands"
)

func textRegistry() *tg.Registry {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(tele.Context) error { return nil },
		Description: "start",
	})
	reg.RegisterCommand("/change", commands.Command{
		Handler:     func(tele.Context) error { return nil },
		Description: "change",
		Aliases:     []string{"reset"},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     func(tele.Context) error { return nil },
		Description: "stats",
		AdminOnly:   true,
		Hidden:      true,
	})
	return reg
}

func TestResolveTextCommandMatchesPlainForm(t *testing.T) {
	reg := textRegistry()

	name, handler, ok := resolveTextCommand(reg, "start")
	if !ok || handler == nil {
		t.Fatal("expected 'start' to resolve to the registered command")
	}
	if name != "start" {
		t.Fatalf("handler name = %q, want %q", name, "start")
	}

	if _, _, ok := resolveTextCommand(reg, "reset"); !ok {
		t.Fatal("expected alias 'reset' to resolve")
	}
}

func TestResolveTextCommandSkipsAdminOnly(t *testing.T) {
	reg := textRegistry()

	for _, text := range []string{"stats", "/stats"} {
		if name, _, ok := resolveTextCommand(reg, text); ok {
			t.Fatalf("admin-only command resolved from text %q as %q; must fall through to the fallback", text, name)
		}
	}
}

func TestResolveTextCommandUnknownText(t *testing.T) {
	reg := textRegistry()

	if _, _, ok := resolveTextCommand(reg, "Chess, Sudoku"); ok {
		t.Fatal("free text resolved as a command")
	}
}
