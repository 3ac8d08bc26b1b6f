package client

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid https",
			config: Config{BaseURL: "https://worldbook.it.com", Timeout: time.Second},
		},
		{
			name:   "valid http with port and trailing slash",
			config: Config{BaseURL: "http://localhost:8080/", Timeout: time.Second},
		},
		{
			name:    "empty base URL",
			config:  Config{Timeout: time.Second},
			wantErr: "base URL cannot be empty",
		},
		{
			name:    "missing scheme",
			config:  Config{BaseURL: "worldbook.it.com", Timeout: time.Second},
			wantErr: "must have http:// or https:// scheme",
		},
		{
			name:    "unsupported scheme",
			config:  Config{BaseURL: "ftp://worldbook.it.com", Timeout: time.Second},
			wantErr: "must have http:// or https:// scheme",
		},
		{
			name:    "missing host",
			config:  Config{BaseURL: "https://", Timeout: time.Second},
			wantErr: "has no host",
		},
		{
			name:    "zero timeout",
			config:  Config{BaseURL: "https://worldbook.it.com"},
			wantErr: "timeout must be positive",
		},
		{
			name:    "negative timeout",
			config:  Config{BaseURL: "https://worldbook.it.com", Timeout: -time.Second},
			wantErr: "timeout must be positive",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_NormalizedBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://worldbook.it.com", "https://worldbook.it.com"},
		{"https://worldbook.it.com/", "https://worldbook.it.com"},
		{"http://localhost:3000//", "http://localhost:3000"},
	}

	for _, tt := range tests {
		tt := tt
		got := Config{BaseURL: tt.in}.normalizedBaseURL()
		if got != tt.want {
			t.Errorf("normalizedBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
