// Package main provides the entry point for the Worldbook CLI.
//
// Usage:
//
//	worldbook manifesto
//	worldbook status
//	worldbook query "object storage" --limit 5 --category cloud
//	worldbook get github
//	worldbook version --short
//
// Global flags:
//
//	--json        Output JSON on every branch, errors included
//	--base-url    API origin (default: https://worldbook.it.com, env WORLDBOOK_BASE_URL)
//	--timeout     Request timeout duration (default: 10s)
//	--config      Config file (default: <user config dir>/worldbook/config.yaml)
//
// Reported errors (not_found, connection_failed and others) exit 0; usage
// and configuration errors exit 1.
package main

import (
	"os"

	"worldbook/internal/client/commands"
)

func main() {
	os.Exit(commands.Execute(commands.NewRootCmd()))
}
