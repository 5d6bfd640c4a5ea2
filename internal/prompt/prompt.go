// Package prompt builds the system instruction and request parameters sent
// to the completion endpoint. It is pure: no I/O, no failures.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-humanizer/internal/usecase"
)

// ErrUnknownTask indicates an invalid task name was specified.
var ErrUnknownTask = errors.New("unknown task")

// Task selects the framing of the transformation.
type Task string

// Tasks. Process is the unified entry point and the default.
const (
	Process  Task = "process"
	Humanize Task = "humanize"
	Rewrite  Task = "rewrite"
)

// Sampling defaults per task.
const (
	defaultMaxTokens    = 4000
	humanizeTemperature = 0.7
	rewriteTemperature  = 0.8
	processTemperature  = 0.7
)

// Fallback directives for a blank custom prompt.
const (
	defaultCustomHumanize = "Follow the user's custom instructions for tone and style."
	defaultCustomRewrite  = "Follow the user's custom instructions for rewriting."
)

// ParseTask validates a task name. Empty string returns Process.
func ParseTask(s string) (Task, error) {
	switch t := Task(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return Process, nil
	case Process, Humanize, Rewrite:
		return t, nil
	}
	return "", fmt.Errorf("unknown task %q (valid: process, humanize, rewrite): %w", s, ErrUnknownTask)
}

// String returns the task name.
func (t Task) String() string {
	return string(t)
}

// Spec is everything the completion client needs for one request.
type Spec struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// outputRules are the hard format constraints shared by every framing.
const outputRules = `Output rules:
- Reply with ONLY the transformed text
- No preamble, no introduction, no explanation
- No closing remarks or notes about the changes
- No markdown code fences or quotation marks around the text`

const humanizeFraming = `You are an expert text humanizer. Your job is to take AI-generated text and make it sound more natural and human-like. Focus on:

1. Removing robotic, formulaic language patterns
2. Adding natural variations in sentence structure
3. Using more conversational transitions
4. Eliminating overly formal or artificial phrasing
5. Adding subtle imperfections that humans naturally have
6. Maintaining the original meaning and key information`

const rewriteFraming = `You are an expert content rewriter. Your job is to completely rewrite the given text while:

1. Preserving the core meaning and key information
2. Changing the structure and flow significantly
3. Using different vocabulary and phrasing
4. Making it sound natural and human-written
5. Adapting the tone for the specified use case`

const processFraming = `You transform text so it reads as if a person wrote it, not a machine. Focus on:

1. Replacing stock AI phrasing ("Furthermore,", "It is important to note that", "utilize") with plain wording
2. Varying sentence length and structure
3. Keeping every fact, claim and the original meaning intact
4. Matching the tone requested below`

// humanizeDirectives also serve the Process task.
var humanizeDirectives = map[usecase.UseCase]string{
	usecase.Academic:     "Write in an academic style suitable for research papers and scholarly work, but make it sound like it was written by a human researcher rather than AI.",
	usecase.Professional: "Write in a professional tone suitable for business documents, CVs, and corporate communications.",
	usecase.Casual:       "Write in a casual, conversational tone suitable for blog posts and articles.",
	usecase.Social:       "Write in a casual, engaging tone suitable for social media posts with natural personality.",
	usecase.Creative:     "Write with creative flair suitable for storytelling and creative content.",
	usecase.Technical:    "Write in a clear, technical style suitable for documentation and tutorials.",
}

var rewriteDirectives = map[usecase.UseCase]string{
	usecase.Academic:     "Rewrite in an academic style with proper scholarly language and structure.",
	usecase.Professional: "Rewrite in a professional business tone.",
	usecase.Casual:       "Rewrite in a casual, conversational style.",
	usecase.Social:       "Rewrite for social media with engaging, personal language.",
	usecase.Creative:     "Rewrite with creative and expressive language.",
	usecase.Technical:    "Rewrite in clear, technical language.",
}

// System returns the system instruction for task and use case.
// customPrompt is only read for usecase.Custom; blank falls back to a default.
// Unknown use cases get the Professional directive. The result is never empty.
func System(task Task, uc usecase.UseCase, customPrompt string) string {
	framing, directives, customDefault := humanizeFraming, humanizeDirectives, defaultCustomHumanize
	switch task {
	case Rewrite:
		framing, directives, customDefault = rewriteFraming, rewriteDirectives, defaultCustomRewrite
	case Process:
		framing = processFraming
	}

	directive := directives[uc.OrDefault()]
	if uc.IsCustom() {
		directive = strings.TrimSpace(customPrompt)
		if directive == "" {
			directive = customDefault
		}
	}

	return framing + "\n\n" + outputRules + "\n\nTone: " + directive
}

// userPrefix introduces the source text in the user message.
func userPrefix(task Task) string {
	switch task {
	case Humanize:
		return "Please humanize this text:\n\n"
	case Rewrite:
		return "Please rewrite this text:\n\n"
	}
	return "Please process this text:\n\n"
}

func temperature(task Task) float64 {
	switch task {
	case Humanize:
		return humanizeTemperature
	case Rewrite:
		return rewriteTemperature
	}
	return processTemperature
}

// Build assembles the full request parameters for one transformation.
func Build(task Task, uc usecase.UseCase, customPrompt, text string) Spec {
	return Spec{
		System:      System(task, uc, customPrompt),
		User:        userPrefix(task) + text,
		Temperature: temperature(task),
		MaxTokens:   defaultMaxTokens,
	}
}
