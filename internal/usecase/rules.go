package usecase

import "regexp"

// Rule is a case-insensitive phrase pattern and its literal replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// RuleSet is an ordered list of rules. Later rules see the output of earlier ones.
type RuleSet []Rule

// Apply runs every rule in order.
func (rs RuleSet) Apply(text string) string {
	for _, r := range rs {
		text = r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
	}
	return text
}

// rule compiles pattern with case-insensitive matching.
func rule(pattern, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)` + pattern), Replacement: replacement}
}

// Shared patterns for stock machine-writing tics.
const (
	furthermore   = `\bFurthermore,?\s*`
	moreover      = `\bMoreover,?\s*`
	inConclusion  = `\bIn conclusion,?\s*`
	importantNote = `\bIt is important to note that\s*`
	shouldBeNoted = `\bIt should be noted that\s*`
	inOrderTo     = `\bin order to\b`
	utilize       = `\butilize\b`
	facilitate    = `\bfacilitate\b`
	demonstrate   = `\bdemonstrate\b`
	optimize      = `\boptimize\b`
	implement     = `\bimplement\b`
	leverage      = `\bleverage\b`
)

// rules maps each use case to its substitutions. Custom has none: it carries
// a free-text instruction instead.
var rules = map[UseCase]RuleSet{
	Academic: {
		rule(furthermore, "Additionally, "),
		rule(moreover, "Furthermore, "),
		rule(inConclusion, "In summary, "),
		rule(importantNote, "Note that "),
		rule(inOrderTo, "to"),
		rule(utilize, "use"),
		rule(demonstrate, "show"),
	},
	Professional: {
		rule(furthermore, "Also, "),
		rule(moreover, "Additionally, "),
		rule(inConclusion, "In summary, "),
		rule(inOrderTo, "to"),
		rule(utilize, "use"),
		rule(facilitate, "enable"),
		rule(optimize, "improve"),
	},
	Casual: {
		rule(furthermore, "Also, "),
		rule(moreover, "Plus, "),
		rule(inConclusion, "So, "),
		rule(importantNote, ""),
		rule(inOrderTo, "to"),
		rule(utilize, "use"),
		rule(facilitate, "help"),
		rule(demonstrate, "show"),
		rule(implement, "do"),
	},
	Social: {
		rule(furthermore, "Also "),
		rule(moreover, "Plus "),
		rule(inConclusion, "So "),
		rule(importantNote, ""),
		rule(shouldBeNoted, ""),
		rule(inOrderTo, "to"),
		rule(utilize, "use"),
		rule(facilitate, "help"),
	},
	Creative: {
		rule(furthermore, "And "),
		rule(moreover, "What's more, "),
		rule(inConclusion, "In the end, "),
		rule(importantNote, ""),
		rule(inOrderTo, "to"),
		rule(utilize, "use"),
		rule(demonstrate, "show"),
	},
	Technical: {
		rule(furthermore, "Also, "),
		rule(moreover, "Additionally, "),
		rule(inConclusion, "In summary, "),
		rule(importantNote, "Note that "),
		rule(inOrderTo, "to"),
		rule(utilize, "use"),
		rule(facilitate, "enable"),
		rule(leverage, "use"),
	},
}

// common applies to every use case after its own rules. Case-sensitive:
// only sentence-initial connectors are shortened.
var common = RuleSet{
	{Pattern: regexp.MustCompile(`\. However,`), Replacement: ". But"},
	{Pattern: regexp.MustCompile(`\. Therefore,`), Replacement: ". So"},
	{Pattern: regexp.MustCompile(`\. Additionally,`), Replacement: ". And"},
}

// Rules returns the rule set for u. Unknown tags get Professional's rules;
// Custom gets an empty set.
func (u UseCase) Rules() RuleSet {
	if u.IsCustom() {
		return nil
	}
	return rules[u.OrDefault()]
}

// ApplyRules rewrites text with u's rules followed by the common rules.
func ApplyRules(text string, u UseCase) string {
	return common.Apply(u.Rules().Apply(text))
}
