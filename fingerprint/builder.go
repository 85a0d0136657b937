package fingerprint

import (
	"github.com/himanishpuri/echofp/audio"
)

// Builder is the fluent entry point: From(...).WithOptions(...).Build().
// The built Command is a plain, immutable value; the builder itself is
// discarded after Build.
type Builder struct {
	provider      audio.Provider
	source        string
	startSeconds  float64
	lengthSeconds float64
	cfg           Config
}

// NewBuilder starts a fluent command, sourcing audio through provider.
func NewBuilder(provider audio.Provider) *Builder {
	return &Builder{provider: provider, cfg: DefaultConfig()}
}

func (b *Builder) From(source string) *Builder {
	b.source = source
	return b
}

func (b *Builder) WithStart(seconds float64) *Builder {
	b.startSeconds = seconds
	return b
}

func (b *Builder) WithLength(seconds float64) *Builder {
	b.lengthSeconds = seconds
	return b
}

func (b *Builder) WithOptions(opts ...Option) *Builder {
	for _, opt := range opts {
		opt(&b.cfg)
	}
	return b
}

// Build validates the accumulated configuration and returns an immutable
// Command, or InvalidConfig if the configuration is inconsistent.
func (b *Builder) Build() (*Command, error) {
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}
	return &Command{
		provider:      b.provider,
		source:        b.source,
		startSeconds:  b.startSeconds,
		lengthSeconds: b.lengthSeconds,
		cfg:           b.cfg,
	}, nil
}
