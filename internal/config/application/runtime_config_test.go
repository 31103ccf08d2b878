package application

import (
	"testing"
	"time"
)

func TestLoadRuntimeConfig_Precedence(t *testing.T) {
	t.Setenv("LIGHTHOUSE_API_KEY", "env-key")
	t.Setenv("LIGHTHOUSE_API_PORT", "9090")
	t.Setenv("LIGHTHOUSE_BACKEND", "sqlite")
	t.Setenv("LIGHTHOUSE_LIVENESS_TIMEOUT", "10m")
	t.Setenv("LIGHTHOUSE_MAX_EVENTS", "250")

	cfg := LoadRuntimeConfig(RuntimeFlags{APIKey: "flag-key"})

	if cfg.APIKey != "flag-key" {
		t.Errorf("expected flag to win, got %q", cfg.APIKey)
	}
	if cfg.APIPort != "9090" {
		t.Errorf("expected env port, got %q", cfg.APIPort)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("expected env backend, got %q", cfg.Backend)
	}
	if cfg.LivenessTimeout != 10*time.Minute {
		t.Errorf("expected env timeout, got %v", cfg.LivenessTimeout)
	}
	if cfg.MaxEvents != 250 {
		t.Errorf("expected env max events, got %d", cfg.MaxEvents)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("expected default sweep interval, got %v", cfg.SweepInterval)
	}
}

func TestRuntimeConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RuntimeConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  RuntimeConfig{APIKey: "k", Backend: BackendFile},
		},
		{
			name:    "missing api key",
			cfg:     RuntimeConfig{Backend: BackendFile},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     RuntimeConfig{APIKey: "k", Backend: "redis"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
