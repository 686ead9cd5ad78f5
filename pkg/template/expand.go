// Package template expands placeholders in configured directory values.
package template

import (
	"os"
	"os/user"
	"regexp"
	"strings"
	"time"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]*)\}`)

// Expand replaces the supported placeholders in text:
//
//	{date}      current date, YYYY-MM-DD
//	{hostname}  local hostname without domain
//	{user}      current username
//
// Entries in vars override the built-ins, so a job can substitute its
// own host for {hostname}. An unknown placeholder is an E_NOT_FOUND
// error; expansion happens once at config load so rendered command
// lines stay stable for the process lifetime.
func Expand(text string, vars map[string]string) (string, error) {
	values := map[string]string{
		"date":     time.Now().Format("2006-01-02"),
		"hostname": localHostname(),
		"user":     localUser(),
	}
	for k, v := range vars {
		values[k] = v
	}

	var unknown string
	out := placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := values[name]; ok {
			return v
		}
		if unknown == "" {
			unknown = name
		}
		return match
	})
	if unknown != "" {
		return "", errclass.ErrNotFound.WithMessagef("unknown placeholder {%s}", unknown)
	}
	return out, nil
}

func localHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return strings.Split(h, ".")[0]
}

func localUser() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return u.Username
}
