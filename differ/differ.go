package differ

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/logging"
	"github.com/erraggy/oassync/oaserrors"
)

// Result contains the outcome of comparing two documents.
type Result struct {
	// OldVersion and NewVersion are the source format versions ("2.0", "3.0.3", ...).
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
	// Changes are ordered by path, then rule, then change type.
	Changes          []Change `json:"changes"`
	BreakingCount    int      `json:"breaking_count"`
	NonBreakingCount int      `json:"non_breaking_count"`
}

// HasBreakingChanges reports whether any change is breaking.
func (r *Result) HasBreakingChanges() bool {
	return r.BreakingCount > 0
}

// Summary is a one-line description of the counts.
func (r *Result) Summary() string {
	if len(r.Changes) == 0 {
		return "no changes"
	}
	return fmt.Sprintf("%d change(s): %d breaking, %d non-breaking", len(r.Changes), r.BreakingCount, r.NonBreakingCount)
}

type config struct {
	breakingOnly bool
	logger       logging.Logger
}

// Option configures a Diff call.
type Option func(*config) error

// WithBreakingOnly drops non-breaking changes from the result. Ordering of
// the remaining changes is unchanged.
func WithBreakingOnly(enabled bool) Option {
	return func(c *config) error {
		c.breakingOnly = enabled
		return nil
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// Diff compares two normalized documents. Documents may come from different
// source versions. The context is checked between endpoints and between
// schemas.
func Diff(ctx context.Context, oldDoc, newDoc *ir.Document, opts ...Option) (*Result, error) {
	cfg := &config{logger: logging.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &oaserrors.ConfigError{Option: "diff", Message: "invalid option", Cause: err}
		}
	}
	if oldDoc == nil || newDoc == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "both documents are required"}
	}

	d := &differ{
		ctx:   ctx,
		old:   oldDoc,
		new:   newDoc,
		roles: mergeRoles(graph.Build(oldDoc).Roles(), graph.Build(newDoc).Roles()),
	}
	if err := d.run(); err != nil {
		return nil, err
	}

	changes := d.changes
	sortChanges(changes)
	if cfg.breakingOnly {
		changes = slices.DeleteFunc(changes, func(c Change) bool { return !c.IsBreaking() })
	}

	res := &Result{OldVersion: oldDoc.SourceVersion, NewVersion: newDoc.SourceVersion, Changes: changes}
	if res.Changes == nil {
		res.Changes = []Change{}
	}
	for _, c := range res.Changes {
		if c.IsBreaking() {
			res.BreakingCount++
		} else {
			res.NonBreakingCount++
		}
	}
	cfg.logger.Debug("diff complete",
		"old_version", res.OldVersion,
		"new_version", res.NewVersion,
		"breaking", res.BreakingCount,
		"non_breaking", res.NonBreakingCount,
	)
	return res, nil
}

type differ struct {
	ctx     context.Context
	old     *ir.Document
	new     *ir.Document
	roles   map[string]graph.Role
	changes []Change
}

func (d *differ) run() error {
	d.diffInfo()
	d.diffServers()
	if err := d.diffEndpoints(); err != nil {
		return err
	}
	if err := d.diffSchemas(); err != nil {
		return err
	}
	d.diffSecuritySchemes()
	return nil
}

func (d *differ) add(c Change) {
	if c.Severity == "" {
		c.Severity = SeverityOf(c.Rule)
	}
	d.changes = append(d.changes, c)
}

func (d *differ) diffInfo() {
	if d.old.Info.Version != d.new.Info.Version {
		d.add(Change{
			Path:     "info/version",
			Type:     ChangeTypeModified,
			Category: CategoryInfo,
			Rule:     RuleInfoVersionChanged,
			OldValue: d.old.Info.Version,
			NewValue: d.new.Info.Version,
			Message:  fmt.Sprintf("API version changed from %q to %q", d.old.Info.Version, d.new.Info.Version),
		})
	}
	if d.old.Info.Title != d.new.Info.Title {
		d.add(Change{
			Path:     "info/title",
			Type:     ChangeTypeModified,
			Category: CategoryInfo,
			Rule:     RuleInfoTitleChanged,
			OldValue: d.old.Info.Title,
			NewValue: d.new.Info.Title,
			Message:  fmt.Sprintf("title changed from %q to %q", d.old.Info.Title, d.new.Info.Title),
		})
	}
}

func (d *differ) diffServers() {
	oldURLs := make(map[string]bool, len(d.old.Servers))
	for _, s := range d.old.Servers {
		oldURLs[s.URL] = true
	}
	newURLs := make(map[string]bool, len(d.new.Servers))
	for _, s := range d.new.Servers {
		newURLs[s.URL] = true
	}
	for _, s := range d.old.Servers {
		if !newURLs[s.URL] {
			d.add(Change{
				Path:     "servers/" + s.URL,
				Type:     ChangeTypeRemoved,
				Category: CategoryServer,
				Rule:     RuleServerRemoved,
				OldValue: s.URL,
				Message:  fmt.Sprintf("server %q removed", s.URL),
			})
		}
	}
	for _, s := range d.new.Servers {
		if !oldURLs[s.URL] {
			d.add(Change{
				Path:     "servers/" + s.URL,
				Type:     ChangeTypeAdded,
				Category: CategoryServer,
				Rule:     RuleServerAdded,
				NewValue: s.URL,
				Message:  fmt.Sprintf("server %q added", s.URL),
			})
		}
	}
}

func (d *differ) diffSecuritySchemes() {
	for name, oldScheme := range d.old.SecuritySchemes.All() {
		path := "security_schemes/" + name
		newScheme, ok := d.new.SecuritySchemes.Get(name)
		if !ok {
			d.add(Change{
				Path:     path,
				Type:     ChangeTypeRemoved,
				Category: CategorySecurity,
				Rule:     RuleSecuritySchemeRemoved,
				OldValue: oldScheme.Type,
				Message:  fmt.Sprintf("security scheme %q removed", name),
			})
			continue
		}
		if oldScheme.Type != newScheme.Type || oldScheme.Scheme != newScheme.Scheme || oldScheme.In != newScheme.In {
			d.add(Change{
				Path:     path,
				Type:     ChangeTypeModified,
				Category: CategorySecurity,
				Rule:     RuleSecuritySchemeTypeChanged,
				OldValue: describeScheme(oldScheme),
				NewValue: describeScheme(newScheme),
				Message:  fmt.Sprintf("security scheme %q changed from %s to %s", name, describeScheme(oldScheme), describeScheme(newScheme)),
			})
		}
	}
	for name, s := range d.new.SecuritySchemes.All() {
		if d.old.SecuritySchemes.Has(name) {
			continue
		}
		d.add(Change{
			Path:     "security_schemes/" + name,
			Type:     ChangeTypeAdded,
			Category: CategorySecurity,
			Rule:     RuleSecuritySchemeAdded,
			NewValue: s.Type,
			Message:  fmt.Sprintf("security scheme %q added", name),
		})
	}
}

func describeScheme(s *ir.SecurityScheme) string {
	parts := []string{s.Type}
	if s.Scheme != "" {
		parts = append(parts, s.Scheme)
	}
	if s.In != "" {
		parts = append(parts, "in "+s.In)
	}
	return strings.Join(parts, " ")
}

// mergeRoles combines the roles a schema has in either document.
func mergeRoles(a, b map[string]graph.Role) map[string]graph.Role {
	out := make(map[string]graph.Role, len(a)+len(b))
	for name, r := range a {
		out[name] = r
	}
	for name, r := range b {
		out[name] = unionRole(out[name], r)
	}
	return out
}

func unionRole(a, b graph.Role) graph.Role {
	switch {
	case a == "" || a == graph.RoleUnused:
		return b
	case b == "" || b == graph.RoleUnused || a == b:
		return a
	default:
		return graph.RoleBoth
	}
}

func sortChanges(changes []Change) {
	slices.SortStableFunc(changes, func(a, b Change) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Rule, b.Rule); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
}
