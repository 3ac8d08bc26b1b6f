// Package version holds the build information of the worldbook CLI.
//
// The variables are injected at build time:
//
//	-ldflags "-X worldbook/internal/version.version=v0.3.0 -X worldbook/internal/version.commit=abc123 -X worldbook/internal/version.buildTime=2026-01-01T00:00:00Z"
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

//nolint:gochecknoglobals // Required for build-time injection via ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name shown in version and status output.
const ApplicationName = "Worldbook CLI"

// Default values used when no build information was injected.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

const (
	LabelVersion   = "Version"
	LabelCommit    = "Commit"
	LabelBuilt     = "Built"
	fieldSeparator = ": "
	lineSeparator  = "\n"
)

// Info is the resolved build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Get returns the build information with defaults applied.
func Get() *Info {
	return &Info{
		Version:   withDefault(version, DefaultVersion),
		Commit:    withDefault(commit, DefaultCommit),
		BuildTime: withDefault(buildTime, DefaultBuildTime),
	}
}

// String returns the bare version, as printed by --version.
func String() string {
	return Get().Version
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// FormatShort returns only the version number.
func (i *Info) FormatShort() string {
	return i.Version
}

// FormatFull returns the application name followed by one labelled line per field.
func (i *Info) FormatFull() string {
	var builder strings.Builder

	builder.WriteString(ApplicationName)
	builder.WriteString(lineSeparator)
	for _, field := range [][2]string{
		{LabelVersion, i.Version},
		{LabelCommit, i.Commit},
		{LabelBuilt, i.BuildTime},
	} {
		builder.WriteString(field[0])
		builder.WriteString(fieldSeparator)
		builder.WriteString(field[1])
		builder.WriteString(lineSeparator)
	}

	return builder.String()
}

// Write writes the short or full format to w.
func (i *Info) Write(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, i.FormatShort())
		return err
	}
	_, err := fmt.Fprint(w, i.FormatFull())
	return err
}

// WriteJSON writes the build information as an indented JSON object.
func (i *Info) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(i)
}

// SetBuildVars overrides the build variables. Used by tests.
func SetBuildVars(ver, com, bt string) {
	version = ver
	commit = com
	buildTime = bt
}

// ResetBuildVars clears the build variables. Used by tests.
func ResetBuildVars() {
	SetBuildVars("", "", "")
}
