package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxInputSize caps input text read from files or stdin (5MB).
const maxInputSize = 5 * 1024 * 1024

// readInput reads text from path, or from env.Stdin when path is "" or "-".
// Whitespace-only input fails with ErrEmptyInput.
func readInput(env *Env, path string) (string, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = env.Stdin
	} else {
		f, err := os.Open(path) // #nosec G304 -- user-provided input file
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return "", fmt.Errorf("cannot open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputSize))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

// writeOutput writes content to path, or to env.Stdout when path is "".
// Stdout output always ends with a newline.
func writeOutput(env *Env, path, content string) error {
	if path == "" {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		_, err := io.WriteString(env.Stdout, content)
		return err
	}
	if err := writeFileAtomic(path, content); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Wrote %s\n", path)
	return nil
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
