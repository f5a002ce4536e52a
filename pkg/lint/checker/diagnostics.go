// Copyright 2016-2020, Pulumi Corporation.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checker

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/pulumi/protolint/pkg/util/logging"
)

const (
	// UndefinedAttribute reports access to a field or method that a message, enum, or container does not have.
	UndefinedAttribute = "undefined-attribute"
	// UndefinedModuleMember reports access to a name that a generated module does not define.
	UndefinedModuleMember = "undefined-module-member"
	// CompositeAssignment reports assignment to a message, repeated, or map field.
	CompositeAssignment = "composite-assignment"
	// UnexpectedKeyword reports a constructor keyword that does not name a field.
	UnexpectedKeyword = "unexpected-keyword"
	// PositionalArguments reports positional arguments to a message constructor.
	PositionalArguments = "positional-arguments"
)

var ruleSummaries = map[string]string{
	UndefinedAttribute:    "Undefined protobuf attribute",
	UndefinedModuleMember: "Undefined protobuf module member",
	CompositeAssignment:   "Assignment to composite field",
	UnexpectedKeyword:     "Unexpected constructor keyword",
	PositionalArguments:   "Positional constructor arguments",
}

// Rules returns the names of all rules, sorted.
func Rules() []string {
	rules := make([]string, 0, len(ruleSummaries))
	for rule := range ruleSummaries {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	return rules
}

// ValidateRules checks that every name is a known rule.
func ValidateRules(names []string) error {
	for _, name := range names {
		if _, ok := ruleSummaries[name]; !ok {
			return errors.Errorf("unknown rule %q%s", name, didYouMean(name, Rules()))
		}
	}
	return nil
}

// RuleOf returns the rule that produced a diagnostic, or "" if the diagnostic did not come from a rule.
func RuleOf(d *hcl.Diagnostic) string {
	for rule, summary := range ruleSummaries {
		if d.Summary == summary {
			return rule
		}
	}
	return ""
}

func (c *checker) errorf(rule string, subject *hcl.Range, f string, args ...interface{}) {
	if c.disabled[rule] {
		logging.V(7).Infof("%v: suppressed %v", c.file.Name, rule)
		return
	}
	c.diagnostics = append(c.diagnostics, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  ruleSummaries[rule],
		Detail:   fmt.Sprintf(f, args...),
		Subject:  subject,
	})
}

// report turns an engine failure into a diagnostic. Only failures on values from the type table are reported;
// everything else the analysis cannot see through is silent.
func (c *checker) report(err error) {
	e, ok := evaluation.AsError(err)
	if !ok {
		logging.V(7).Infof("%v: ignoring %v", c.file.Name, err)
		return
	}

	switch e.Kind {
	case evaluation.AttributeNotFound:
		hint := ""
		if owner, ok := e.Owner.(descriptor.Attributes); ok {
			hint = didYouMean(e.Name, owner.AttributeNames())
		}

		switch owner := e.Owner.(type) {
		case *descriptor.Module:
			if owner.File() != nil {
				c.errorf(UndefinedModuleMember, e.Subject, "Module %q has no member %q.%s", owner.Name(), e.Name, hint)
				return
			}
		case *descriptor.Instance:
			c.errorf(UndefinedAttribute, e.Subject,
				"Field %q does not appear in the declared fields of protobuf-generated class %q and will raise "+
					"AttributeError on access.%s", e.Name, owner.Message.FullName, hint)
			return
		case *descriptor.Class:
			c.errorf(UndefinedAttribute, e.Subject, "Class %q has no attribute %q.%s",
				owner.Message.FullName, e.Name, hint)
			return
		case *descriptor.EnumType:
			c.errorf(UndefinedAttribute, e.Subject, "Enum %q has no value or method %q.%s",
				owner.Enum.FullName, e.Name, hint)
			return
		case *descriptor.Repeated, *descriptor.Map:
			c.errorf(UndefinedAttribute, e.Subject, "Container %v has no method %q.%s", owner, e.Name, hint)
			return
		}
	case evaluation.AttributeNotAssignable:
		if owner, ok := e.Owner.(*descriptor.Instance); ok {
			c.errorf(CompositeAssignment, e.Subject,
				"Field %q of %q is a composite field and cannot be assigned; use CopyFrom or MergeFrom instead.",
				e.Name, owner.Message.FullName)
			return
		}
	}
	logging.V(7).Infof("%v: ignoring %v", c.file.Name, err)
}

// didYouMean suggests the candidate closest to name, if any is close enough to be a plausible typo.
func didYouMean(name string, candidates []string) string {
	best, bestDistance := "", len(name)/2+1
	for _, candidate := range candidates {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(candidate), levenshtein.DefaultOptions)
		if d > 0 && d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" Did you mean %q?", best)
}
