package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestGet tests that build variables are resolved with defaults.
func TestGet(t *testing.T) {
	tests := []struct {
		name           string
		setupVersion   string
		setupCommit    string
		setupBuildTime string
		want           Info
	}{
		{
			name: "empty values use defaults",
			want: Info{Version: DefaultVersion, Commit: DefaultCommit, BuildTime: DefaultBuildTime},
		},
		{
			name:           "all values set",
			setupVersion:   "v0.3.0",
			setupCommit:    "abc123",
			setupBuildTime: "2026-01-01T00:00:00Z",
			want:           Info{Version: "v0.3.0", Commit: "abc123", BuildTime: "2026-01-01T00:00:00Z"},
		},
		{
			name:         "partial values - only version",
			setupVersion: "v0.4.0",
			want:         Info{Version: "v0.4.0", Commit: DefaultCommit, BuildTime: DefaultBuildTime},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetBuildVars(tt.setupVersion, tt.setupCommit, tt.setupBuildTime)
			defer ResetBuildVars()

			info := Get()

			if *info != tt.want {
				t.Errorf("Get() = %+v, want %+v", *info, tt.want)
			}
		})
	}
}

func TestInfo_FormatFull(t *testing.T) {
	info := &Info{Version: "v0.3.0", Commit: "abc123", BuildTime: "2026-01-01T00:00:00Z"}

	got := info.FormatFull()

	want := "Worldbook CLI\nVersion: v0.3.0\nCommit: abc123\nBuilt: 2026-01-01T00:00:00Z\n"
	if got != want {
		t.Errorf("FormatFull() = %q, want %q", got, want)
	}
}

func TestInfo_Write(t *testing.T) {
	info := &Info{Version: "v0.3.0", Commit: "abc123", BuildTime: "unknown"}

	var short bytes.Buffer
	if err := info.Write(&short, true); err != nil {
		t.Fatalf("Write(short) returned error: %v", err)
	}
	if short.String() != "v0.3.0\n" {
		t.Errorf("short output = %q, want %q", short.String(), "v0.3.0\n")
	}

	var full bytes.Buffer
	if err := info.Write(&full, false); err != nil {
		t.Fatalf("Write(full) returned error: %v", err)
	}
	if !strings.HasPrefix(full.String(), ApplicationName) {
		t.Errorf("full output should start with %q, got %q", ApplicationName, full.String())
	}
}

func TestInfo_WriteJSON(t *testing.T) {
	info := &Info{Version: "v0.3.0", Commit: "abc123", BuildTime: "unknown"}

	var buf bytes.Buffer
	if err := info.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["version"] != "v0.3.0" || decoded["commit"] != "abc123" || decoded["build_time"] != "unknown" {
		t.Errorf("unexpected JSON fields: %v", decoded)
	}
}
