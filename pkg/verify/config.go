package verify

import (
	"github.com/stevennevins/storage-proofs/pkg/crypto"
	"github.com/stevennevins/storage-proofs/pkg/log"
	"github.com/stevennevins/storage-proofs/pkg/trie"
)

// Config carries the facade's only shared resources: the keccak256
// primitive the walker binds proof nodes with, and a logger for
// diagnostic lines. NewConfig defaults the hasher to crypto.DefaultHasher,
// and without a logger the facade logs nothing. Build a Config with
// NewConfig: the zero value has no hasher and cannot verify.
type Config struct {
	hasher trie.Hasher
	logger *log.Logger
}

// Option configures a Config.
type Option func(*Config)

// WithHasher overrides the keccak256 primitive. Provide a custom
// implementation to substitute a hardware-accelerated or instrumented
// hasher; it must be safe for concurrent use, since one Config may back
// many concurrent Verify calls.
func WithHasher(h trie.Hasher) Option {
	return func(c *Config) { c.hasher = h }
}

// WithLogger attaches a logger for per-step diagnostic lines. Without
// this option the facade logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// NewConfig builds a Config, applying defaults and then opts in order.
func NewConfig(opts ...Option) *Config {
	c := &Config{hasher: crypto.DefaultHasher{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Config) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Config) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
