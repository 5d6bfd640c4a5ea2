package pipeline

import (
	"regexp"

	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/transform"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// ApplyLocal re-derives output from base, the most recent upstream text.
// Both flags off returns base unchanged.
func ApplyLocal(base string, flags transform.Flags, rng transform.Rand) string {
	return transform.Apply(base, flags, rng)
}

var (
	firstSentence = regexp.MustCompile(`(?m)^(.*?)\.`)
	iBelieveThat  = regexp.MustCompile(`(?i)\bI believe that\b`)
)

// Local transforms text with the rule tables only, without any network call.
// The rewrite task adds a use-case flourish on top of the humanize rules.
func Local(task prompt.Task, text string, uc usecase.UseCase) string {
	out := usecase.ApplyRules(text, uc)
	if task != prompt.Rewrite {
		return out
	}

	switch uc.OrDefault() {
	case usecase.Social:
		out = addOpener(out, "Hey, ")
	case usecase.Casual:
		out = iBelieveThat.ReplaceAllLiteralString(out, "I think")
	}
	return out
}

// addOpener prefixes the first sentence that starts a line. Text with no
// full stop is returned unchanged.
func addOpener(text, opener string) string {
	loc := firstSentence.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + opener + text[loc[0]:]
}
