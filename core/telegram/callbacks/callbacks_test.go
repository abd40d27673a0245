package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type callbackContext struct {
	tele.Context
	cb *tele.Callback
}

func (c callbackContext) Callback() *tele.Callback { return c.cb }

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		key     string
		payload string
	}{
		{"key and payload", "\\fpick.toggle|3", "pick.toggle", "3"},
		{"key only", "\\fpick.done", "pick.done", ""},
		{"empty payload", "\\fpick.toggle|", "pick.toggle", ""},
		{"no prefix", "pick.toggle|2", "pick.toggle", "2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
			if key != tc.key || payload != tc.payload {
				t.Fatalf("ParseCallbackData(%q) = (%q, %q), want (%q, %q)",
					tc.data, key, payload, tc.key, tc.payload)
			}
		})
	}

	if key, payload := ParseCallbackData(nil); key != "" || payload != "" {
		t.Fatalf("nil callback parsed to (%q, %q)", key, payload)
	}
}

func TestPayloadInt(t *testing.T) {
	ctx := callbackContext{cb: &tele.Callback{Data: "\\fpick.toggle|3"}}
	id, err := PayloadInt(ctx)
	if err != nil {
		t.Fatalf("PayloadInt: %v", err)
	}
	if id != 3 {
		t.Fatalf("id = %d, want 3", id)
	}
}

func TestPayloadIntRejectsGarbage(t *testing.T) {
	for _, data := range []string{"\\fpick.toggle|bogus", "\\fpick.toggle|", "\\fpick.toggle"} {
		ctx := callbackContext{cb: &tele.Callback{Data: data}}
		if id, err := PayloadInt(ctx); err == nil {
			t.Fatalf("PayloadInt(%q) = %d, want error", data, id)
		}
	}
	if _, err := PayloadInt(callbackContext{}); err == nil {
		t.Fatal("PayloadInt without a callback should fail")
	}
}
