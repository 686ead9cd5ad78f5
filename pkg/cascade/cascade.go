// Package cascade implements parent-delegating settings: a node either
// stores its own value or defers to a parent node, so a tree of job
// templates can override individual settings while falling back to the
// template they derive from.
package cascade

// Value is one node in a chain of cascading settings. A node created
// with NewChild starts out inheriting: reads walk the parent chain until
// they hit a node that is not inheriting. Set detaches the node from the
// chain, Reset reattaches it.
//
// Parent chains must be acyclic; Get does not detect cycles. Values are
// not safe for concurrent use.
type Value[T any] struct {
	parent     *Value[T]
	stored     T
	hasStored  bool
	inheriting bool
}

// New returns a standalone node holding no value.
func New[T any]() *Value[T] {
	return &Value[T]{}
}

// NewWith returns a standalone node holding v.
func NewWith[T any](v T) *Value[T] {
	return &Value[T]{stored: v, hasStored: true}
}

// NewChild returns a node that inherits from parent until Set is called
// on it.
func NewChild[T any](parent *Value[T]) *Value[T] {
	return &Value[T]{parent: parent, inheriting: true}
}

// Get returns the effective value. A node that is inheriting and has a
// parent reports the parent's effective value; otherwise its own stored
// value. The boolean reports whether the answering node held a value.
func (v *Value[T]) Get() (T, bool) {
	if v.inheriting && v.parent != nil {
		return v.parent.Get()
	}
	return v.stored, v.hasStored
}

// Set stores val on this node and stops inheriting. It never touches
// the parent.
func (v *Value[T]) Set(val T) {
	v.stored = val
	v.hasStored = true
	v.inheriting = false
}

// Reset re-enables inheriting when the node has a parent. On a node
// without a parent it clears the stored value instead, so the effective
// value becomes absent; callers that want a type-specific default back
// must restore it themselves.
func (v *Value[T]) Reset() {
	if v.parent != nil {
		v.inheriting = true
		return
	}
	var zero T
	v.stored = zero
	v.hasStored = false
	v.inheriting = false
}

// SetParent rebinds the node's parent. The stored value is untouched: a
// node that was inheriting keeps inheriting from the new parent, and a
// nil parent makes the stored value (if any) serve reads again.
func (v *Value[T]) SetParent(p *Value[T]) {
	v.parent = p
}

// Parent returns the current parent node, nil when standalone.
func (v *Value[T]) Parent() *Value[T] {
	return v.parent
}

// Inheriting reports whether reads currently defer to the parent.
func (v *Value[T]) Inheriting() bool {
	return v.inheriting && v.parent != nil
}
