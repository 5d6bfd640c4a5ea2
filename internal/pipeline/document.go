package pipeline

import (
	"context"

	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/transform"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// Document tracks the texts behind one editing session: the user's source,
// the latest AI output, and the local flags. Every Render starts again from
// the upstream text, so flags never compound.
//
// A Document is not safe for concurrent use.
type Document struct {
	source string
	aiText string
	flags  transform.Flags
	rng    transform.Rand
}

// NewDocument creates a Document for source. A nil rng uses the global source.
func NewDocument(source string, rng transform.Rand) *Document {
	if rng == nil {
		rng = transform.DefaultRand()
	}
	return &Document{source: source, rng: rng}
}

// Source returns the user's text.
func (d *Document) Source() string { return d.source }

// AIText returns the latest completion, or "" if none succeeded yet.
func (d *Document) AIText() string { return d.aiText }

// Flags returns the current local flags.
func (d *Document) Flags() transform.Flags { return d.flags }

// SetSource replaces the source and discards the AI text derived from the old one.
func (d *Document) SetSource(source string) {
	d.source = source
	d.aiText = ""
}

// SetAIText records upstream output produced elsewhere.
func (d *Document) SetAIText(text string) {
	d.aiText = text
}

// SetFlags replaces the local flags.
func (d *Document) SetFlags(flags transform.Flags) {
	d.flags = flags
}

// Base returns the AI text if present, else the source.
func (d *Document) Base() string {
	if d.aiText != "" {
		return d.aiText
	}
	return d.source
}

// Render applies the flags to Base.
func (d *Document) Render() string {
	return ApplyLocal(d.Base(), d.flags, d.rng)
}

// Transform runs task on the source through svc and renders the result.
// On failure the previous AI text is kept.
func (d *Document) Transform(ctx context.Context, svc *Service, task prompt.Task, uc usecase.UseCase, customPrompt string) (string, error) {
	out, err := svc.Run(ctx, task, d.source, uc, customPrompt)
	if err != nil {
		return "", err
	}
	d.aiText = out
	return d.Render(), nil
}
