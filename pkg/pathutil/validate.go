// Package pathutil provides name validation and normalization for job
// and host identifiers.
package pathutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

var jobNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// NFC returns s in Unicode normal form C. Identifiers are normalized
// before they are compared or turned into directory names, so visually
// identical names map to the same bytes.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// ValidateJobName checks a job template name from the configuration
// file.
func ValidateJobName(name string) error {
	if name == "" {
		return errclass.ErrNameInvalid.WithMessage("job name must not be empty")
	}

	name = NFC(name)

	if !jobNameRegex.MatchString(name) {
		return errclass.ErrNameInvalid.WithMessagef("job name must match [a-zA-Z0-9._-]+: %s", name)
	}
	return nil
}

// ValidateHost checks a host identifier. Hosts end up inside the
// user@host::dir address, so characters that collide with that syntax
// are rejected along with whitespace and control characters.
func ValidateHost(host string) error {
	if host == "" {
		return errclass.ErrNameInvalid.WithMessage("host must not be empty")
	}

	host = NFC(host)

	if strings.ContainsAny(host, "@:/\\") {
		return errclass.ErrNameInvalid.WithMessagef("host must not contain address syntax characters: %s", host)
	}
	for _, r := range host {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return errclass.ErrNameInvalid.WithMessagef("host must not contain spaces or control characters: %q", host)
		}
	}
	return nil
}
