// Package userutil resolves the interactive user a bound command runs for and
// sanitizes user names used in endpoint and lock names.
package userutil

import (
	"os"
	"os/user"
	"regexp"
	"strings"
)

var invalidUsernameRune = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeUsername normalizes username-like values used in socket, pipe and
// mutex names.
func SanitizeUsername(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return invalidUsernameRune.ReplaceAllString(value, "_")
}

// CurrentUsername returns the sanitized name of the user running the process,
// taken from USER, then USERNAME, then the account database.
func CurrentUsername() string {
	username := strings.TrimSpace(os.Getenv("USER"))
	if username == "" {
		username = strings.TrimSpace(os.Getenv("USERNAME"))
	}
	if username == "" {
		if current, err := user.Current(); err == nil {
			username = current.Username
		}
	}
	return SanitizeUsername(username)
}

// stripDomain drops a Windows "DOMAIN\" prefix.
func stripDomain(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}
