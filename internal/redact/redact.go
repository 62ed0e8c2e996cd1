// Package redact strips secrets from session text before it is written
// anywhere. Detection is regex-driven: an ordered rule list is applied
// sequentially, each rule replacing its matches with a named placeholder
// so a reader can still tell what kind of secret was removed.
package redact

import (
	"regexp"

	"go.uber.org/zap"
)

type compiledRule struct {
	re          *regexp.Regexp
	placeholder string
	category    string
}

// Redactor applies an ordered set of redaction rules. Construct once and
// reuse; compilation happens up front.
type Redactor struct {
	rules []compiledRule
}

// Report summarizes one Redact call.
type Report struct {
	OriginalLength int
	RedactedLength int
	Total          int
	ByCategory     map[string]int
}

// New compiles the given rules into a Redactor. Rules that fail to
// compile are skipped with a warning rather than failing the whole set,
// so one bad pattern cannot disable redaction entirely.
func New(rules []Rule, log *zap.Logger) *Redactor {
	if log == nil {
		log = zap.NewNop()
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			log.Warn("skipping unparseable redaction rule",
				zap.String("category", r.Category),
				zap.Error(err))
			continue
		}
		compiled = append(compiled, compiledRule{re: re, placeholder: r.Placeholder, category: r.Category})
	}
	return &Redactor{rules: compiled}
}

// Default returns a Redactor over the built-in rule list.
func Default(log *zap.Logger) *Redactor {
	return New(DefaultRules(), log)
}

// Redact replaces every secret found in text and reports what was
// removed, counted per category. The input is never modified.
func (r *Redactor) Redact(text string) (string, *Report) {
	report := &Report{
		OriginalLength: len(text),
		ByCategory:     make(map[string]int),
	}
	out := text
	for _, rule := range r.rules {
		matches := rule.re.FindAllStringIndex(out, -1)
		if len(matches) == 0 {
			continue
		}
		report.ByCategory[rule.category] += len(matches)
		report.Total += len(matches)
		out = rule.re.ReplaceAllLiteralString(out, rule.placeholder)
	}
	report.RedactedLength = len(out)
	return out, report
}

// RedactString is Redact without the report, for callers that only want
// the cleaned text.
func (r *Redactor) RedactString(text string) string {
	out, _ := r.Redact(text)
	return out
}
