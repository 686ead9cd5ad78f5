package backup

// DefaultTool is the command a job invokes unless overridden.
const DefaultTool = "rdiff-backup"

// Catalog lists every recognized option in rendering order. The order is
// fixed so the same job renders the same command line on every run.
var Catalog = []Spec{
	{Name: "create-full-path", Kind: KindBool, BoolDefault: false},
	{Name: "force", Kind: KindBool, BoolDefault: false},
	{Name: "never-drop-acls", Kind: KindBool, BoolDefault: false},
	{Name: "override-chars-to-quote", Kind: KindBool, BoolDefault: false},
	{Name: "preserve-numerical-ids", Kind: KindBool, BoolDefault: false},
	{Name: "use-compatible-timestamps", Kind: KindBool, BoolDefault: false},

	// These flags switch a tool default off, so their property names read
	// positively: acls=false renders --no-acls.
	{Name: "no-acls", Kind: KindBool, BoolDefault: true},
	{Name: "no-compare-inode", Kind: KindBool, BoolDefault: true},
	{Name: "no-compression", Kind: KindBool, BoolDefault: true},
	{Name: "no-eas", Kind: KindBool, BoolDefault: true},
	{Name: "no-file-statistics", Kind: KindBool, BoolDefault: true},
	{Name: "no-hard-links", Kind: KindBool, BoolDefault: true},
	{Name: "no-resource-forks", Kind: KindBool, BoolDefault: true},
	{Name: "ssh-no-compression", Kind: KindBool, BoolDefault: true},

	{Name: "carbonfile", Kind: KindTernary},

	{Name: "group-mapping-file", Kind: KindString},
	{Name: "no-compression-regexp", Kind: KindString},
	{Name: "remote-schema", Kind: KindString},
	{Name: "remote-tempdir", Kind: KindString},
	{Name: "tempdir", Kind: KindString},
	{Name: "user-mapping-file", Kind: KindString},

	{Name: "terminal-verbosity", Kind: KindInt},
	{Name: "verbosity", Kind: KindInt},
}

var (
	specByProperty = make(map[string]Spec, len(Catalog))
	specByName     = make(map[string]Spec, len(Catalog))
)

func init() {
	for _, s := range Catalog {
		specByProperty[s.PropertyName()] = s
		specByName[s.Name] = s
	}
}

// SpecByProperty looks an option up by its normalized property name
// (e.g. "acls", "sshcompression").
func SpecByProperty(property string) (Spec, bool) {
	s, ok := specByProperty[property]
	return s, ok
}

// SpecByName looks an option up by its command-line name (e.g.
// "no-acls", "ssh-no-compression").
func SpecByName(name string) (Spec, bool) {
	s, ok := specByName[name]
	return s, ok
}
