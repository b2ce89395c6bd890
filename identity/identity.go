// Package identity resolves the acting username recorded in the audit
// trail.
package identity

import (
	"os/user"
	"strings"
)

// Resolve returns the supplied username, falling back to the operating
// system account when the caller provided none.
func Resolve(supplied string) string {
	if s := strings.TrimSpace(supplied); s != "" {
		return s
	}
	return Fallback()
}

// Fallback reports the OS account name, without a domain prefix if one is
// present, or "system" when even that is unavailable.
func Fallback() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "system"
	}
	name := u.Username
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
