package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid defaults",
			config:  Config{SQLiteDBPath: "./test.db", LogLevel: "info"},
			wantErr: false,
		},
		{
			name:    "empty db path",
			config:  Config{SQLiteDBPath: "", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			config:  Config{SQLiteDBPath: "./test.db", LogLevel: "loud"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{SQLiteDBPath: filepath.Join(dir, "nested", "badger.db"), LogLevel: "debug"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"WARN", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"silly", 0, false},
	}
	for _, tc := range cases {
		got, err := (&Config{LogLevel: tc.in}).SlogLevel()
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: got %v (err=%v)", tc.in, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}
