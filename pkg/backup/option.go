// Package backup models rdiff-backup invocations: typed options,
// include/exclude filters, source/destination places, and jobs that
// compose them into a runnable command line. Jobs form template
// hierarchies in which every setting cascades from parent to child
// until a child overrides it.
package backup

import (
	"strconv"
	"strings"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

// Kind classifies an option's value type, and with it the rendering rule.
type Kind int

const (
	// KindString renders [--name, value] when a value is present.
	KindString Kind = iota
	// KindInt renders [--name, itoa(value)] when a value is present.
	KindInt
	// KindBool renders [--name] when the value differs from the declared
	// default.
	KindBool
	// KindTernary renders [--name] for true, [--no-name] for false, and
	// nothing while unknown.
	KindTernary
)

// Ternary is a three-valued flag: unknown until told otherwise.
type Ternary int

const (
	TernaryUnknown Ternary = iota
	TernaryTrue
	TernaryFalse
)

// Spec declares a recognized option: its command-line name, its kind,
// and, for booleans, the wrapped tool's own default behavior.
type Spec struct {
	Name        string
	Kind        Kind
	BoolDefault bool
}

// PropertyName returns the option name in identifier form. Boolean and
// ternary names drop every "no-" (there the flag spells a negation the
// identifier should not carry: setting property "acls" to false renders
// --no-acls). String and integer names keep "no-" because it is part of
// the meaning (--no-compression-regexp selects files, it negates
// nothing). Dashes are removed in every case.
func (s Spec) PropertyName() string {
	n := s.Name
	if s.Kind != KindString && s.Kind != KindInt {
		n = strings.ReplaceAll(n, "no-", "")
	}
	return strings.ReplaceAll(n, "-", "")
}

// Option is a single typed setting together with its current value.
// Construct with NewOption; the zero value has no spec and is unusable.
type Option struct {
	spec   Spec
	str    string
	num    int
	flag   bool
	tern   Ternary
	hasStr bool
	hasNum bool
}

// NewOption returns an option in its neutral state: absent for string,
// integer and ternary kinds, the declared default for booleans.
func NewOption(spec Spec) *Option {
	o := &Option{spec: spec}
	o.Default()
	return o
}

// Spec returns the option's declaration.
func (o *Option) Spec() Spec {
	return o.spec
}

// SetValue assigns v, which must match the option's kind: string kinds
// take a string or nil, integer kinds an int or nil, booleans a bool,
// ternaries a bool, a Ternary, or nil for unknown. Anything else fails
// with E_TYPE_MISMATCH; values are never coerced.
func (o *Option) SetValue(v any) error {
	switch o.spec.Kind {
	case KindString:
		if v == nil {
			o.str, o.hasStr = "", false
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return errclass.ErrTypeMismatch.WithMessagef("option %s takes a string, got %T", o.spec.Name, v)
		}
		o.str, o.hasStr = s, true
	case KindInt:
		if v == nil {
			o.num, o.hasNum = 0, false
			return nil
		}
		n, ok := v.(int)
		if !ok {
			return errclass.ErrTypeMismatch.WithMessagef("option %s takes an integer, got %T", o.spec.Name, v)
		}
		o.num, o.hasNum = n, true
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return errclass.ErrTypeMismatch.WithMessagef("option %s takes a boolean, got %T", o.spec.Name, v)
		}
		o.flag = b
	case KindTernary:
		switch tv := v.(type) {
		case nil:
			o.tern = TernaryUnknown
		case bool:
			if tv {
				o.tern = TernaryTrue
			} else {
				o.tern = TernaryFalse
			}
		case Ternary:
			o.tern = tv
		default:
			return errclass.ErrTypeMismatch.WithMessagef("option %s takes true, false or nil, got %T", o.spec.Name, v)
		}
	}
	return nil
}

// Value returns the current value: a string, int, bool or Ternary
// depending on kind, or nil when a string/integer value is absent.
func (o *Option) Value() any {
	switch o.spec.Kind {
	case KindString:
		if !o.hasStr {
			return nil
		}
		return o.str
	case KindInt:
		if !o.hasNum {
			return nil
		}
		return o.num
	case KindBool:
		return o.flag
	default:
		return o.tern
	}
}

// Tokens renders the option as command-line arguments per its kind. An
// option in its neutral state renders nothing.
func (o *Option) Tokens() []string {
	switch o.spec.Kind {
	case KindString:
		if o.hasStr {
			return []string{"--" + o.spec.Name, o.str}
		}
	case KindInt:
		if o.hasNum {
			return []string{"--" + o.spec.Name, strconv.Itoa(o.num)}
		}
	case KindBool:
		if o.flag != o.spec.BoolDefault {
			return []string{"--" + o.spec.Name}
		}
	case KindTernary:
		switch o.tern {
		case TernaryTrue:
			return []string{"--" + o.spec.Name}
		case TernaryFalse:
			return []string{"--no-" + o.spec.Name}
		}
	}
	return nil
}

// Default returns the option to its neutral state.
func (o *Option) Default() {
	o.str, o.hasStr = "", false
	o.num, o.hasNum = 0, false
	o.flag = o.spec.BoolDefault
	o.tern = TernaryUnknown
}
