// Package doctor diagnoses an installation: the wrapped tool, the lock
// directory, the config file and the journal chain.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-version"

	"github.com/wardrobe-project/wardrobe/internal/journal"
	"github.com/wardrobe-project/wardrobe/internal/lock"
	"github.com/wardrobe-project/wardrobe/internal/runner"
	"github.com/wardrobe-project/wardrobe/pkg/config"
	"github.com/wardrobe-project/wardrobe/pkg/model"
)

// MinToolVersion is the oldest tool release the generated command lines
// are known to work with.
const MinToolVersion = "1.2.8"

// Result contains one doctor pass. Healthy means no finding of severity
// error; warnings and infos do not count against it.
type Result struct {
	Healthy  bool            `json:"healthy"`
	Findings []model.Finding `json:"findings"`
}

// Doctor performs installation health checks.
type Doctor struct {
	settings config.Settings
}

// New creates a doctor for the given settings.
func New(settings config.Settings) *Doctor {
	return &Doctor{settings: settings}
}

// Run checks everything with a fresh doctor.
func Run(ctx context.Context, settings config.Settings) *Result {
	return New(settings).Check(ctx)
}

// Check runs all diagnostic checks. Problems become findings, never
// errors, so the result is always complete.
func (d *Doctor) Check(ctx context.Context) *Result {
	result := &Result{}

	d.checkTool(ctx, result)
	d.checkLock(result)
	d.checkConfig(result)
	d.checkJournal(result)

	result.Healthy = true
	for _, f := range result.Findings {
		if f.Severity == model.SeverityError {
			result.Healthy = false
			break
		}
	}
	return result
}

func (d *Doctor) checkTool(ctx context.Context, result *Result) {
	tool := d.settings.Tool
	path, err := exec.LookPath(tool)
	if err != nil {
		result.Findings = append(result.Findings, model.Finding{
			Category:    "tool",
			Severity:    model.SeverityError,
			Description: fmt.Sprintf("%s not found on PATH", tool),
		})
		return
	}

	out, err := runner.Run(ctx, []string{tool, "--version"}, runner.Options{Capture: true})
	if err != nil {
		result.Findings = append(result.Findings, model.Finding{
			Category:    "tool",
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%s --version failed: %v", tool, err),
			Path:        path,
		})
		return
	}

	ver := parseVersion(out)
	if ver == nil {
		result.Findings = append(result.Findings, model.Finding{
			Category:    "tool",
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("cannot tell the %s version from %q", tool, strings.TrimSpace(out)),
			Path:        path,
		})
		return
	}

	minimum := version.Must(version.NewVersion(MinToolVersion))
	if ver.LessThan(minimum) {
		result.Findings = append(result.Findings, model.Finding{
			Category:    "tool",
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%s %s is older than the supported minimum %s", tool, ver, MinToolVersion),
			Path:        path,
		})
		return
	}

	result.Findings = append(result.Findings, model.Finding{
		Category:    "tool",
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%s %s", tool, ver),
		Path:        path,
	})
}

func (d *Doctor) checkLock(result *Result) {
	mgr := lock.NewManager(d.settings.LockDir)
	st, err := mgr.Status()
	if err != nil {
		result.Findings = append(result.Findings, model.Finding{
			Category:    "lock",
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("cannot inspect lock: %v", err),
			Path:        mgr.Path(),
		})
		return
	}
	if st.Held {
		age := time.Since(st.Since).Round(time.Second)
		result.Findings = append(result.Findings, model.Finding{
			Category:    "lock",
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("lock held for %s; if no run is in progress, release it with \"wardrobe lock release --force\"", age),
			Path:        st.Path,
		})
		return
	}
	result.Findings = append(result.Findings, model.Finding{
		Category:    "lock",
		Severity:    model.SeverityInfo,
		Description: "lock free",
		Path:        st.Path,
	})
}

func (d *Doctor) checkConfig(result *Result) {
	path := d.settings.Config
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Findings = append(result.Findings, model.Finding{
				Category:    "config",
				Severity:    model.SeverityWarning,
				Description: "no config file; create one with \"wardrobe config init\"",
				Path:        path,
			})
			return
		}
		result.Findings = append(result.Findings, model.Finding{
			Category:    "config",
			Severity:    model.SeverityError,
			Description: err.Error(),
			Path:        path,
		})
		return
	}

	if _, err := cfg.Materialize(nil); err != nil {
		for _, problem := range flatten(err) {
			result.Findings = append(result.Findings, model.Finding{
				Category:    "config",
				Severity:    model.SeverityError,
				Description: problem.Error(),
				Path:        path,
			})
		}
		return
	}

	result.Findings = append(result.Findings, model.Finding{
		Category:    "config",
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d job(s) configured", len(cfg.Jobs)),
		Path:        path,
	})
}

func (d *Doctor) checkJournal(result *Result) {
	jnl := journal.New(d.settings.Journal)
	count, err := jnl.Verify()
	if err != nil {
		result.Findings = append(result.Findings, model.Finding{
			Category:    "journal",
			Severity:    model.SeverityError,
			Description: err.Error(),
			Path:        jnl.Path(),
		})
		return
	}
	result.Findings = append(result.Findings, model.Finding{
		Category:    "journal",
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d record(s), chain intact", count),
		Path:        jnl.Path(),
	})
}

// flatten splits an aggregated materialize error into its individual
// problems so each one becomes its own finding.
func flatten(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}

// parseVersion extracts the first dotted version number from --version
// output such as "rdiff-backup 2.2.6" or "rdiff-backup/2.2.6".
func parseVersion(out string) *version.Version {
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '/'
	})
	for _, field := range fields {
		if !strings.ContainsAny(field, "0123456789") {
			continue
		}
		if v, err := version.NewVersion(field); err == nil {
			return v
		}
	}
	return nil
}
