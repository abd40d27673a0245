package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", RunMode: "longpoll"},
	}
}

func TestNormalizeDefaultsRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = ""

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nil config", nil},
		{"missing token", func(c *Config) { c.Telegram.Token = "" }},
		{"unknown run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }},
		{"webhook without url", func(c *Config) {
			c.Telegram.RunMode = RunModeWebhook
			c.Webhook.Listen = "0.0.0.0"
			c.Webhook.Port = 8443
		}},
		{"webhook without port", func(c *Config) {
			c.Telegram.RunMode = RunModeWebhook
			c.Webhook.URL = "https://bot.example.com"
			c.Webhook.Listen = "0.0.0.0"
		}},
		{"negative longpoll timeout", func(c *Config) { c.Telegram.LongPollTimeoutSeconds = -1 }},
		{"bad rate limit exclusion", func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"carrier"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg *Config
			if tt.mutate != nil {
				cfg = validConfig()
				tt.mutate(cfg)
			}
			if err := Normalize(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNormalizeWebhook(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Webhook"
	cfg.Webhook.URL = "https://bot.example.com"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeWebhook {
		t.Fatalf("run_mode = %q, want webhook", cfg.Telegram.RunMode)
	}
}

func TestNormalizeCanonicalisesExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "MESSAGE"}

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback || cfg.RateLimit.ExcludeUpdates[1] != UpdateMessage {
		t.Fatalf("exclusions = %v", cfg.RateLimit.ExcludeUpdates)
	}
}
