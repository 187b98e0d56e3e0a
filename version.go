package parlance

import (
	_ "embed"
	"strings"
)

//go:embed version.txt
var version string

// Version returns the current version of the parlance server.
func Version() string {
	return strings.TrimSpace(version)
}
