package backup

import (
	"path/filepath"
	"regexp"

	"github.com/wardrobe-project/wardrobe/pkg/pathutil"
)

// defaultSubstPattern matches the characters replaced in generated
// destination directory names.
const defaultSubstPattern = `[^A-Za-z0-9.-]`

// PullCompleteHost generates source/destination pairs for the common
// "pull full backups of hosts a, b and c into basedir/{a,b,c}" layout:
// the source is the host's root directory, the destination a
// subdirectory of basedir named after the host, with unusual characters
// substituted.
type PullCompleteHost struct {
	basedir string
	user    string
	re      *regexp.Regexp
	subst   string
}

// NewPullCompleteHost returns a generator storing backups under basedir,
// connecting as user (empty leaves the user to the transport, typically
// ssh configuration). A relative basedir is qualified against the
// current directory once, here.
func NewPullCompleteHost(basedir, user string) (*PullCompleteHost, error) {
	abs, err := filepath.Abs(basedir)
	if err != nil {
		return nil, err
	}
	return &PullCompleteHost{
		basedir: abs,
		user:    user,
		re:      regexp.MustCompile(defaultSubstPattern),
		subst:   "_",
	}, nil
}

// SetPattern replaces the expression that selects characters to
// substitute in generated directory names. The default is
// [^A-Za-z0-9.-].
func (g *PullCompleteHost) SetPattern(expr string) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return err
	}
	g.re = re
	return nil
}

// SetSubstitute replaces the string substituted for matched characters.
// The default is "_".
func (g *PullCompleteHost) SetSubstitute(s string) {
	g.subst = s
}

// Basedir returns the absolute base directory backups are stored under.
func (g *PullCompleteHost) Basedir() string {
	return g.basedir
}

// Generate produces the source and destination for one host: the host's
// root directory as the source, and basedir/<host> as the destination,
// where <host> is NFC-normalized and has every disallowed character
// replaced. Pure function of the generator's configuration and host.
func (g *PullCompleteHost) Generate(host string) (source, destination *Place) {
	sub := g.re.ReplaceAllString(pathutil.NFC(host), g.subst)
	source = NewPlace("/", host, g.user)
	destination = NewPlace(filepath.Join(g.basedir, sub), "", "")
	return source, destination
}
