package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
	"github.com/wardrobe-project/wardrobe/pkg/pathutil"
	"github.com/wardrobe-project/wardrobe/pkg/template"
)

// Materialize builds runnable jobs from the file's templates. Parents
// materialize before children; unknown parents and inheritance cycles
// are rejected. base, when non-nil, becomes the parent of every
// template that does not extend another, so runtime settings (the tool
// override in particular) cascade like regular job inheritance.
//
// All problems are aggregated so one pass shows every mistake.
func (f *File) Materialize(base *backup.Job) (map[string]*backup.Job, error) {
	var merr *multierror.Error

	jobs := make(map[string]*backup.Job, len(f.Jobs))
	visiting := make(map[string]bool)

	var build func(name string) *backup.Job
	build = func(name string) *backup.Job {
		if job, ok := jobs[name]; ok {
			return job
		}
		if visiting[name] {
			merr = multierror.Append(merr, errclass.ErrConfigInvalid.WithMessagef(
				"inheritance cycle through job %q", name))
			return nil
		}
		visiting[name] = true
		defer delete(visiting, name)

		spec := f.Jobs[name]
		var job *backup.Job
		switch {
		case spec.Extends == "":
			if base != nil {
				job = base.NewChild()
			} else {
				job = backup.NewJob()
			}
		default:
			if _, ok := f.Jobs[spec.Extends]; !ok {
				merr = multierror.Append(merr, errclass.ErrConfigInvalid.WithMessagef(
					"job %q extends unknown job %q", name, spec.Extends))
				return nil
			}
			parent := build(spec.Extends)
			if parent == nil {
				return nil
			}
			job = parent.NewChild()
		}

		f.apply(name, spec, job, &merr)
		jobs[name] = job
		return job
	}

	for _, name := range f.JobNames() {
		if err := pathutil.ValidateJobName(name); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("job %q: %w", name, err))
			continue
		}
		build(name)
	}

	return jobs, merr.ErrorOrNil()
}

func (f *File) apply(name string, spec JobSpec, job *backup.Job, merr **multierror.Error) {
	if spec.Tool != "" {
		job.SetTool(spec.Tool)
	}

	if spec.Source != nil {
		p := *spec.Source
		dir, err := expandDir(p.Directory, p.Host)
		if err != nil {
			*merr = multierror.Append(*merr, fmt.Errorf("job %q: source dir: %w", name, err))
		} else {
			p.Directory = dir
			job.SetSource(&p)
		}
	}

	if spec.Destination != nil {
		// {hostname} in a destination means the job's source host, which
		// may be inherited from a parent template.
		srcHost := ""
		if src := job.Source(); src != nil {
			srcHost = src.Host
		}
		p := *spec.Destination
		dir, err := expandDir(p.Directory, srcHost)
		if err != nil {
			*merr = multierror.Append(*merr, fmt.Errorf("job %q: destination dir: %w", name, err))
		} else {
			p.Directory = dir
			job.SetDestination(&p)
		}
	}

	for i, fspec := range spec.Filters {
		if len(fspec) != 1 {
			*merr = multierror.Append(*merr, errclass.ErrConfigInvalid.WithMessagef(
				"job %q: filter %d must be a single-key map", name, i+1))
			continue
		}
		for fname, fval := range fspec {
			flt, err := backup.NewFilter(fname, fval)
			if err != nil {
				*merr = multierror.Append(*merr, fmt.Errorf("job %q: filter %q: %w", name, fname, err))
				continue
			}
			if flt != nil {
				job.Filters().Add(flt)
			}
		}
	}

	optNames := make([]string, 0, len(spec.Options))
	for key := range spec.Options {
		optNames = append(optNames, key)
	}
	sort.Strings(optNames)
	for _, key := range optNames {
		osp, ok := backup.SpecByName(key)
		if !ok {
			*merr = multierror.Append(*merr, errclass.ErrNotFound.WithMessagef(
				"job %q: unknown option %q", name, key))
			continue
		}
		if err := job.SetOption(osp.PropertyName(), spec.Options[key]); err != nil {
			*merr = multierror.Append(*merr, fmt.Errorf("job %q: option %q: %w", name, key, err))
		}
	}
}

func expandDir(dir, srcHost string) (string, error) {
	if dir == "" {
		return "", nil
	}
	vars := map[string]string{}
	if srcHost != "" {
		vars["hostname"] = srcHost
	}
	return template.Expand(dir, vars)
}
