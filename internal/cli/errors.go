package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrEmptyInput indicates the input text is empty or whitespace only.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInvalidTypoLevel indicates --typos is outside 0..5.
	ErrInvalidTypoLevel = errors.New("invalid typo level")

	// ErrInvalidRetries indicates a negative --retries value.
	ErrInvalidRetries = errors.New("invalid retry count")

	// ErrPromptWithoutCustom indicates --prompt combined with a non-custom use case.
	ErrPromptWithoutCustom = errors.New("custom prompt requires the custom use case")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")
)
