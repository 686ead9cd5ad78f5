package backup

import (
	"context"
	"fmt"

	"github.com/wardrobe-project/wardrobe/pkg/cascade"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

// Executor runs a fully rendered command line. internal/runner provides
// the production implementation; tests substitute fakes.
type Executor interface {
	Run(ctx context.Context, argv []string) error
}

// optionNode pairs a job's own option storage with the cascading node
// that decides whether this storage or an ancestor's is in effect. The
// own option is only visible while the node is detached; setting always
// writes to own, never through to a parent.
type optionNode struct {
	own  *Option
	node *cascade.Value[*Option]
}

// Job describes one backup invocation: the tool to call, a source, a
// destination, a filter set, and every recognized option. Jobs derive
// children with NewChild; a child inherits tool, source, destination and
// all options until it overrides them, and starts with an independent
// copy of the parent's filter set.
//
// Jobs are not safe for concurrent use.
type Job struct {
	tool    *cascade.Value[string]
	source  *cascade.Value[*Place]
	dest    *cascade.Value[*Place]
	filters *FilterSet
	options map[string]*optionNode // keyed by property name
	parent  *Job
}

// NewJob returns a standalone job: default tool, empty source and
// destination, no filters, every option in its neutral state.
func NewJob() *Job {
	j := &Job{
		tool:    cascade.NewWith(DefaultTool),
		source:  cascade.NewWith(&Place{}),
		dest:    cascade.NewWith(&Place{}),
		filters: &FilterSet{},
		options: make(map[string]*optionNode, len(Catalog)),
	}
	for _, spec := range Catalog {
		own := NewOption(spec)
		j.options[spec.PropertyName()] = &optionNode{own: own, node: cascade.NewWith(own)}
	}
	return j
}

// NewChild derives a job that defers to j for every setting until it
// overrides them.
func (j *Job) NewChild() *Job {
	c := &Job{
		tool:    cascade.NewChild(j.tool),
		source:  cascade.NewChild(j.source),
		dest:    cascade.NewChild(j.dest),
		filters: j.filters.Clone(),
		options: make(map[string]*optionNode, len(Catalog)),
		parent:  j,
	}
	for _, spec := range Catalog {
		prop := spec.PropertyName()
		own := NewOption(spec)
		node := cascade.NewWith(own)
		node.SetParent(j.options[prop].node)
		node.Reset()
		c.options[prop] = &optionNode{own: own, node: node}
	}
	return c
}

// Parent returns the job this one derives from, nil for a root job.
func (j *Job) Parent() *Job {
	return j.parent
}

// Tool returns the effective command name.
func (j *Job) Tool() string {
	t, ok := j.tool.Get()
	if !ok || t == "" {
		return DefaultTool
	}
	return t
}

// SetTool overrides the command name for this job and its descendants.
func (j *Job) SetTool(name string) {
	j.tool.Set(name)
}

// ResetTool resumes inheriting the parent's tool; a root job goes back
// to the default.
func (j *Job) ResetTool() {
	if j.tool.Parent() != nil {
		j.tool.Reset()
		return
	}
	j.tool.Set(DefaultTool)
}

// Source returns the effective source place, nil when unset along the
// whole chain.
func (j *Job) Source() *Place {
	p, ok := j.source.Get()
	if !ok {
		return nil
	}
	return p
}

// SetSource overrides the source, detaching it from the parent.
func (j *Job) SetSource(p *Place) {
	j.source.Set(p)
}

// ResetSource resumes inheriting the parent's source; on a root job it
// clears the source entirely.
func (j *Job) ResetSource() {
	j.source.Reset()
}

// Destination returns the effective destination place, nil when unset
// along the whole chain.
func (j *Job) Destination() *Place {
	p, ok := j.dest.Get()
	if !ok {
		return nil
	}
	return p
}

// SetDestination overrides the destination, detaching it from the
// parent.
func (j *Job) SetDestination(p *Place) {
	j.dest.Set(p)
}

// ResetDestination resumes inheriting the parent's destination; on a
// root job it clears the destination entirely.
func (j *Job) ResetDestination() {
	j.dest.Reset()
}

// Filters returns the job's filter set. It is the job's own copy:
// extending it affects this job only, and children derive their own
// copies.
func (j *Job) Filters() *FilterSet {
	return j.filters
}

// SetFilters replaces the job's filter set.
func (j *Job) SetFilters(fs *FilterSet) {
	if fs == nil {
		fs = &FilterSet{}
	}
	j.filters = fs
}

// Option returns the effective value of the option with the given
// property name: a string, int, bool or Ternary depending on kind, or
// nil for an absent string/integer. Unknown names fail with E_NOT_FOUND.
func (j *Job) Option(property string) (any, error) {
	entry, ok := j.options[property]
	if !ok {
		return nil, errclass.ErrNotFound.WithMessagef("unknown option %q", property)
	}
	eff, ok := entry.node.Get()
	if !ok {
		return nil, nil
	}
	return eff.Value(), nil
}

// SetOption overrides an option, detaching it from the parent. The value
// must match the option's kind (E_TYPE_MISMATCH otherwise); on error the
// option keeps inheriting.
func (j *Job) SetOption(property string, value any) error {
	entry, ok := j.options[property]
	if !ok {
		return errclass.ErrNotFound.WithMessagef("unknown option %q", property)
	}
	if err := entry.own.SetValue(value); err != nil {
		return err
	}
	entry.node.Set(entry.own)
	return nil
}

// ResetOption resumes inheriting the option from the parent; on a root
// job it restores the option's neutral state instead.
func (j *Job) ResetOption(property string) error {
	entry, ok := j.options[property]
	if !ok {
		return errclass.ErrNotFound.WithMessagef("unknown option %q", property)
	}
	if entry.node.Parent() != nil {
		entry.node.Reset()
		return nil
	}
	entry.own.Default()
	return nil
}

// RenderCommandLine assembles the full argument vector: tool name,
// options in catalog order, filters in insertion order, then the source
// and destination addresses. Invalid place combinations surface here,
// not at assignment time.
func (j *Job) RenderCommandLine() ([]string, error) {
	argv := []string{j.Tool()}
	for _, spec := range Catalog {
		eff, ok := j.options[spec.PropertyName()].node.Get()
		if !ok {
			continue
		}
		argv = append(argv, eff.Tokens()...)
	}
	argv = append(argv, j.filters.Tokens()...)

	src := j.Source()
	if src == nil {
		src = &Place{}
	}
	s, err := src.Render()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst := j.Destination()
	if dst == nil {
		dst = &Place{}
	}
	d, err := dst.Render()
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	return append(argv, s, d), nil
}

// Run renders the command line and hands it to exec, blocking until the
// tool finishes. A non-zero exit surfaces as the executor's error,
// E_EXIT_STATUS carrying the exit code.
func (j *Job) Run(ctx context.Context, exec Executor) error {
	argv, err := j.RenderCommandLine()
	if err != nil {
		return err
	}
	return exec.Run(ctx, argv)
}
