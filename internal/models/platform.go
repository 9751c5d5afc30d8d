package models

import (
	"fmt"
	"strings"
)

// Platform identifies one of the supported external services.
type Platform string

const (
	PlatformCodeforces Platform = "codeforces"
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeChef   Platform = "codechef"
	PlatformGitHub     Platform = "github"
)

func AllPlatforms() []Platform {
	return []Platform{PlatformCodeforces, PlatformLeetCode, PlatformCodeChef, PlatformGitHub}
}

// ParsePlatform normalizes a user-supplied platform name.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformCodeforces, PlatformLeetCode, PlatformCodeChef, PlatformGitHub:
		return p, nil
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

func (p Platform) DisplayName() string {
	switch p {
	case PlatformCodeforces:
		return "Codeforces"
	case PlatformLeetCode:
		return "LeetCode"
	case PlatformCodeChef:
		return "CodeChef"
	case PlatformGitHub:
		return "GitHub"
	}
	return string(p)
}

// HandleMap maps a platform to the username configured for it.
// At most one handle per platform; empty handles count as unconfigured.
type HandleMap map[Platform]string

// Configured returns the platforms that have a non-blank handle.
func (h HandleMap) Configured() []Platform {
	var out []Platform
	for _, p := range AllPlatforms() {
		if strings.TrimSpace(h[p]) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a shallow copy so callers can't mutate the owner's map.
func (h HandleMap) Clone() HandleMap {
	out := make(HandleMap, len(h))
	for p, v := range h {
		out[p] = v
	}
	return out
}
