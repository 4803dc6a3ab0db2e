package core

import "fmt"

// ValidationIssue reports one schema problem found on a single resource.
type ValidationIssue struct {
	Subject string
	Message string
}

func (i ValidationIssue) String() string { return fmt.Sprintf("%s: %s", i.Subject, i.Message) }

// ValidationReport is the result of a light, local cross-resource schema
// check (spec.md §4.6): every required property of every resource's
// declared classes is present, and every AtomicUrl / ResourceArray propval
// points at a subject that resolves within the store.
type ValidationReport struct {
	Issues []ValidationIssue
}

// Valid reports whether the report carries no issues.
func (r *ValidationReport) Valid() bool { return len(r.Issues) == 0 }

// validateStore walks every resource in the store, checking required
// props per class and link resolution, without fetching external data.
func validateStore(s Storelike) (*ValidationReport, error) {
	report := &ValidationReport{}

	for _, r := range s.AllResources(true) {
		classes, err := r.GetClasses(s)
		if err != nil {
			report.Issues = append(report.Issues, ValidationIssue{
				Subject: r.Subject(),
				Message: err.Error(),
			})
			continue
		}
		for _, class := range classes {
			for _, required := range class.Requires {
				if !r.Has(required) {
					report.Issues = append(report.Issues, ValidationIssue{
						Subject: r.Subject(),
						Message: fmt.Sprintf("missing required property %s (class %s)", required, class.Subject),
					})
				}
			}
		}

		for prop, val := range r.PropVals() {
			switch val.Datatype().kind {
			case "atomicURL":
				checkLinkResolves(s, r.Subject(), prop, val.String(), report)
			case "resourceArray":
				urls, _ := val.ResourceArray()
				for _, u := range urls {
					checkLinkResolves(s, r.Subject(), prop, u, report)
				}
			}
		}
	}

	return report, nil
}

func checkLinkResolves(s Storelike, subject, prop, target string, report *ValidationReport) {
	if len(target) >= 2 && target[:2] == "_:" {
		// Locally-scoped subjects resolve within their own transaction,
		// not the store — not a validation concern here.
		return
	}
	if _, err := s.GetResource(target); err != nil {
		report.Issues = append(report.Issues, ValidationIssue{
			Subject: subject,
			Message: fmt.Sprintf("property %s points to unresolved subject %s", prop, target),
		})
	}
}
