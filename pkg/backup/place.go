package backup

import "github.com/wardrobe-project/wardrobe/pkg/errclass"

// DefaultDirectory stands in when a place has no explicit directory.
const DefaultDirectory = "/"

// Place is a backup source or destination: a directory, optionally on a
// remote host, optionally reached as a specific user. Empty fields count
// as unset. Field combinations are only checked at render time so fields
// can be assigned independently and in any order.
type Place struct {
	Directory string `yaml:"dir"`
	Host      string `yaml:"host"`
	User      string `yaml:"user"`
}

// NewPlace returns a place with the given directory, host and user, any
// of which may be empty.
func NewPlace(directory, host, user string) *Place {
	return &Place{Directory: directory, Host: host, User: user}
}

// Render produces the address the tool expects: user@host::dir,
// host::dir, or a bare directory. An unset directory defaults to "/". A
// user without a host, like a place with nothing set at all, fails with
// E_SETTING_COMBINATION.
func (p *Place) Render() (string, error) {
	dir := p.Directory
	if dir == "" {
		dir = DefaultDirectory
	}
	if p.User != "" {
		if p.Host == "" {
			return "", errclass.ErrSettingCombination.WithMessage("user without host")
		}
		return p.User + "@" + p.Host + "::" + dir, nil
	}
	if p.Host != "" {
		return p.Host + "::" + dir, nil
	}
	if p.Directory != "" {
		return p.Directory, nil
	}
	return "", errclass.ErrSettingCombination.WithMessage("no settings specified")
}

// String renders the place for display, masking invalid combinations.
// Use Render where the error matters.
func (p *Place) String() string {
	s, err := p.Render()
	if err != nil {
		return "<unset>"
	}
	return s
}
