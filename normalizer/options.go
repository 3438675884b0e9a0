package normalizer

import (
	"fmt"

	"github.com/erraggy/oassync/logging"
)

// Mode controls how structural violations are handled.
type Mode int

const (
	// ModeLenient attaches violations to Document.Warnings and still returns the document.
	ModeLenient Mode = iota
	// ModeStrict fails with a ParseError listing every violation.
	ModeStrict
)

// String returns "lenient" or "strict".
func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

// Content hints accepted by WithContentHint.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultMaxDepth is the deepest inline schema nesting accepted.
const DefaultMaxDepth = 32

// Option is a function that configures a normalization.
type Option func(*config) error

type config struct {
	mode     Mode
	hint     string
	source   string
	maxDepth int
	logger   logging.Logger
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		mode:     ModeLenient,
		maxDepth: DefaultMaxDepth,
		logger:   logging.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithMode selects strict or lenient handling of structural violations.
func WithMode(m Mode) Option {
	return func(cfg *config) error {
		if m != ModeLenient && m != ModeStrict {
			return fmt.Errorf("normalizer: unknown mode %d", m)
		}
		cfg.mode = m
		return nil
	}
}

// WithContentHint forces JSON or YAML decoding. An empty hint sniffs the content.
func WithContentHint(hint string) Option {
	return func(cfg *config) error {
		switch hint {
		case "", FormatJSON, FormatYAML:
			cfg.hint = hint
			return nil
		}
		return fmt.Errorf("normalizer: unknown content hint %q", hint)
	}
}

// WithSourceName sets the source identifier used in error messages.
func WithSourceName(name string) Option {
	return func(cfg *config) error {
		cfg.source = name
		return nil
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) error {
		if depth <= 0 {
			return fmt.Errorf("normalizer: max depth must be positive, got %d", depth)
		}
		cfg.maxDepth = depth
		return nil
	}
}

// WithLogger sets the logger for normalization events.
func WithLogger(l logging.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = logging.OrNop(l)
		return nil
	}
}
