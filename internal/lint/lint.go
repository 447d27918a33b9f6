// Package lint reports content-authoring defects before a build renders
// anything.
package lint

import (
	"fmt"
	"regexp"

	"github.com/suncoast/sitegen/internal/model"
	"github.com/suncoast/sitegen/internal/routes"
	"github.com/suncoast/sitegen/internal/schema"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule names.
const (
	RuleCostRange    = "cost-range"
	RuleProcessOrder = "process-ordinals"
	RuleBreadcrumb   = "breadcrumb-path"
	RuleFAQ          = "faq-entry"
	RuleRelatedLink  = "related-link"
	RuleMetadata     = "metadata"
)

// Finding is one defect in one page.
type Finding struct {
	Route    string
	Source   string
	Rule     string
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s [%s] %s", f.Severity, f.Route, f.Rule, f.Message)
}

// Options tune the rule set.
type Options struct {
	// StrictCost reports malformed cost ranges as errors instead of
	// warnings.
	StrictCost bool
}

// costRange matches "$X - $Y/unit" and "$X/unit", with optional thousands
// separators, decimals and a trailing plus on the upper bound.
var costRange = regexp.MustCompile(`^\$(\d{1,3}(,\d{3})+|\d+)(\.\d+)?( - \$(\d{1,3}(,\d{3})+|\d+)(\.\d+)?\+?)?(/[A-Za-z][A-Za-z .]*)?$`)

// WellFormedCost reports whether cost, combined with an optional separate
// unit, reads "$X - $Y/unit".
func WellFormedCost(cost, unit string) bool {
	if unit != "" {
		cost += "/" + unit
	}
	return costRange.MatchString(cost)
}

// Check runs every rule over every page, in page order.
func Check(site *model.Site, manifest *routes.Manifest, opts Options) []Finding {
	var out []Finding
	for _, p := range site.Pages {
		out = append(out, checkPage(p, opts)...)
	}
	for _, b := range manifest.CheckRelated(site) {
		p, _ := site.Page(b.From)
		f := Finding{
			Route:    b.From,
			Rule:     RuleRelatedLink,
			Severity: SeverityError,
			Message:  fmt.Sprintf("link %q (%s) does not resolve to a published route", b.Href, b.Label),
		}
		if p != nil {
			f.Source = p.SourcePath
		}
		out = append(out, f)
	}
	return out
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func checkPage(p *model.Page, opts Options) []Finding {
	var out []Finding
	add := func(rule string, sev Severity, format string, args ...any) {
		out = append(out, Finding{
			Route:    p.Route,
			Source:   p.SourcePath,
			Rule:     rule,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if p.Metadata.Title == "" {
		add(RuleMetadata, SeverityError, "metadata.title is required")
	}
	if p.Metadata.Description == "" {
		add(RuleMetadata, SeverityError, "metadata.description is required")
	}

	costSeverity := SeverityWarning
	if opts.StrictCost {
		costSeverity = SeverityError
	}
	for _, r := range p.Costs {
		if !WellFormedCost(r.Cost, r.Unit) {
			add(RuleCostRange, costSeverity, "cost %q for %q is not of the form \"$X - $Y/unit\"", r.Cost, r.Label)
		}
	}
	for _, s := range p.Services {
		if s.CostRange != "" && !WellFormedCost(s.CostRange, "") {
			add(RuleCostRange, costSeverity, "cost range %q for %q is not of the form \"$X - $Y/unit\"", s.CostRange, s.Name)
		}
	}

	for i, s := range p.Process {
		if s.Ordinal != i+1 {
			add(RuleProcessOrder, SeverityError, "step %q has ordinal %d, expected %d", s.Title, s.Ordinal, i+1)
		}
	}

	for i, f := range p.FAQs {
		if f.Question == "" || f.Answer == "" {
			add(RuleFAQ, SeverityError, "FAQ %d needs both a question and an answer", i+1)
		}
	}

	if len(p.Breadcrumbs) > 0 {
		if err := schema.ValidateTrail(p.Breadcrumbs, p.Route); err != nil {
			add(RuleBreadcrumb, SeverityError, "%v", err)
		}
	}
	return out
}
