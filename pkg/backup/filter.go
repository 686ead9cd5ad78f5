package backup

import (
	"reflect"
	"strconv"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

// Filter is a single include/exclude rule passed to the backup tool.
type Filter interface {
	// Tokens renders the rule as command-line arguments.
	Tokens() []string
}

// flagFilter is a rule consisting of the flag name alone.
type flagFilter struct {
	name string
}

func (f flagFilter) Tokens() []string {
	return []string{"--" + f.name}
}

// valueFilter is a rule carrying one string value (a path, glob,
// filelist path, or regular expression).
type valueFilter struct {
	name  string
	value string
}

func (f valueFilter) Tokens() []string {
	return []string{"--" + f.name, f.value}
}

// sizeFilter is a rule carrying one byte-count bound.
type sizeFilter struct {
	name  string
	bytes int
}

func (f sizeFilter) Tokens() []string {
	return []string{"--" + f.name, strconv.Itoa(f.bytes)}
}

// Exclude excludes the given (possibly globbed) path.
func Exclude(path string) Filter { return valueFilter{"exclude", path} }

// ExcludeDeviceFiles excludes device files.
func ExcludeDeviceFiles() Filter { return flagFilter{"exclude-device-files"} }

// ExcludeFilelist excludes the paths listed in the given file.
func ExcludeFilelist(path string) Filter { return valueFilter{"exclude-filelist", path} }

// ExcludeGlobbingFilelist excludes the globs listed in the given file.
func ExcludeGlobbingFilelist(path string) Filter {
	return valueFilter{"exclude-globbing-filelist", path}
}

// ExcludeIfPresent excludes directories containing a marker file of the
// given name (e.g. ".nobackup").
func ExcludeIfPresent(filename string) Filter { return valueFilter{"exclude-if-present", filename} }

// ExcludeOtherFilesystems keeps the backup on the source filesystem.
func ExcludeOtherFilesystems() Filter { return flagFilter{"exclude-other-filesystems"} }

// ExcludeRegexp excludes paths matching the given regular expression.
func ExcludeRegexp(expr string) Filter { return valueFilter{"exclude-regexp", expr} }

// ExcludeSpecialFiles excludes device files, fifos, sockets and symlinks.
func ExcludeSpecialFiles() Filter { return flagFilter{"exclude-special-files"} }

// ExcludeSockets excludes sockets.
func ExcludeSockets() Filter { return flagFilter{"exclude-sockets"} }

// ExcludeSymbolicLinks excludes symbolic links.
func ExcludeSymbolicLinks() Filter { return flagFilter{"exclude-symbolic-links"} }

// Include includes the given (possibly globbed) path.
func Include(path string) Filter { return valueFilter{"include", path} }

// IncludeFilelist includes the paths listed in the given file.
func IncludeFilelist(path string) Filter { return valueFilter{"include-filelist", path} }

// IncludeGlobbingFilelist includes the globs listed in the given file.
func IncludeGlobbingFilelist(path string) Filter {
	return valueFilter{"include-globbing-filelist", path}
}

// IncludeRegexp includes paths matching the given regular expression.
func IncludeRegexp(expr string) Filter { return valueFilter{"include-regexp", expr} }

// IncludeSpecialFiles includes device files, fifos, sockets and symlinks.
func IncludeSpecialFiles() Filter { return flagFilter{"include-special-files"} }

// IncludeSymbolicLinks includes symbolic links.
func IncludeSymbolicLinks() Filter { return flagFilter{"include-symbolic-links"} }

// MaxFileSize skips files larger than the given number of bytes.
func MaxFileSize(bytes int) Filter { return sizeFilter{"max-file-size", bytes} }

// MinFileSize skips files smaller than the given number of bytes.
func MinFileSize(bytes int) Filter { return sizeFilter{"min-file-size", bytes} }

// filter name -> arity class, for construction from configuration.
var filterNames = map[string]Kind{
	"exclude":                   KindString,
	"exclude-device-files":      KindBool,
	"exclude-filelist":          KindString,
	"exclude-globbing-filelist": KindString,
	"exclude-if-present":        KindString,
	"exclude-other-filesystems": KindBool,
	"exclude-regexp":            KindString,
	"exclude-special-files":     KindBool,
	"exclude-sockets":           KindBool,
	"exclude-symbolic-links":    KindBool,
	"include":                   KindString,
	"include-filelist":          KindString,
	"include-globbing-filelist": KindString,
	"include-regexp":            KindString,
	"include-special-files":     KindBool,
	"include-symbolic-links":    KindBool,
	"max-file-size":             KindInt,
	"min-file-size":             KindInt,
}

// NewFilter constructs a filter from its command-line name and an
// untyped value, the form configuration files deliver. String filters
// take a string, size filters an int, flag filters a bool; a false flag
// returns (nil, nil) so callers can skip it. Unknown names fail with
// E_NOT_FOUND, wrong value types with E_TYPE_MISMATCH.
func NewFilter(name string, value any) (Filter, error) {
	kind, ok := filterNames[name]
	if !ok {
		return nil, errclass.ErrNotFound.WithMessagef("unknown filter %q", name)
	}
	switch kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, errclass.ErrTypeMismatch.WithMessagef("filter %s takes a string, got %T", name, value)
		}
		return valueFilter{name, s}, nil
	case KindInt:
		n, ok := value.(int)
		if !ok {
			return nil, errclass.ErrTypeMismatch.WithMessagef("filter %s takes an integer, got %T", name, value)
		}
		return sizeFilter{name, n}, nil
	default:
		b, ok := value.(bool)
		if !ok {
			return nil, errclass.ErrTypeMismatch.WithMessagef("filter %s takes a boolean, got %T", name, value)
		}
		if !b {
			return nil, nil
		}
		return flagFilter{name}, nil
	}
}

// FilterSet is an ordered collection of filters. A FilterSet is itself a
// Filter, so sets nest.
type FilterSet struct {
	filters []Filter
}

// NewFilterSet returns a set holding the given filters and sequences of
// filters, flattened in order (see Extend).
func NewFilterSet(args ...any) (*FilterSet, error) {
	fs := &FilterSet{}
	if err := fs.Extend(args...); err != nil {
		return nil, err
	}
	return fs, nil
}

// Extend appends filters to the set. Arguments may be Filters or
// arbitrarily nested slices/arrays of Filters; nesting is flattened
// depth-first, preserving relative order. Anything that is neither a
// Filter nor a sequence fails with E_TYPE_MISMATCH and leaves already
// appended members in place.
func (fs *FilterSet) Extend(args ...any) error {
	for _, arg := range args {
		if f, ok := arg.(Filter); ok {
			fs.filters = append(fs.filters, f)
			continue
		}
		rv := reflect.ValueOf(arg)
		if arg == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return errclass.ErrTypeMismatch.WithMessagef("cannot add %T to a filter set", arg)
		}
		for i := 0; i < rv.Len(); i++ {
			if err := fs.Extend(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Add appends filters without the untyped flattening of Extend.
func (fs *FilterSet) Add(filters ...Filter) {
	fs.filters = append(fs.filters, filters...)
}

// Filters returns the members in insertion order.
func (fs *FilterSet) Filters() []Filter {
	out := make([]Filter, len(fs.filters))
	copy(out, fs.filters)
	return out
}

// Len returns the number of members.
func (fs *FilterSet) Len() int {
	return len(fs.filters)
}

// Tokens concatenates each member's rendering, in insertion order.
func (fs *FilterSet) Tokens() []string {
	var out []string
	for _, f := range fs.filters {
		out = append(out, f.Tokens()...)
	}
	return out
}

// Clone returns an independent copy. Nested sets are cloned too, so
// extending the copy never mutates the original.
func (fs *FilterSet) Clone() *FilterSet {
	out := &FilterSet{filters: make([]Filter, len(fs.filters))}
	for i, f := range fs.filters {
		if nested, ok := f.(*FilterSet); ok {
			out.filters[i] = nested.Clone()
			continue
		}
		out.filters[i] = f
	}
	return out
}
