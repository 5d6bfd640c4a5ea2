package cli

import (
	"errors"
	"fmt"

	"github.com/alnah/go-humanizer/internal/config"
)

// Provider names.
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
)

// Provider represents a validated completion provider.
// Zero value is invalid and must not be used.
// Use ParseProvider to create from user input, or the pre-parsed constants.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed provider constants for use in code.
var (
	DeepSeekProvider = Provider{name: ProviderDeepSeek}
	OpenAIProvider   = Provider{name: ProviderOpenAI}
)

// validProviders contains the set of valid provider names.
var validProviders = map[string]bool{
	ProviderDeepSeek: true,
	ProviderOpenAI:   true,
}

// ParseProvider validates and parses a provider name string.
// Returns ErrInvalidProvider if the name is not recognized.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'deepseek' or 'openai'): %w", s, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// MustParseProvider parses a provider name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseProvider(s string) Provider {
	p, err := ParseProvider(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the provider name string.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if no provider is set. Callers default it with OrDefault.
func (p Provider) IsZero() bool {
	return p.name == ""
}

// IsDeepSeek returns true if this provider is DeepSeek.
func (p Provider) IsDeepSeek() bool {
	return p.name == ProviderDeepSeek
}

// IsOpenAI returns true if this provider is OpenAI.
func (p Provider) IsOpenAI() bool {
	return p.name == ProviderOpenAI
}

// OrDefault returns the provider, or DeepSeekProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return DeepSeekProvider
	}
	return p
}

// APIKey picks the credential for p from cfg.
func (p Provider) APIKey(cfg config.Config) string {
	if p.OrDefault().IsOpenAI() {
		return cfg.OpenAIAPIKey
	}
	return cfg.DeepSeekAPIKey
}

// CredentialKey returns the config key holding p's credential.
func (p Provider) CredentialKey() string {
	if p.OrDefault().IsOpenAI() {
		return config.KeyOpenAIAPIKey
	}
	return config.KeyDeepSeekAPIKey
}
