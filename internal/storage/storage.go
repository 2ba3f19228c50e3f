// Package storage remembers which result sets were already submitted so that
// repeated CI invocations do not create duplicate runs.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Submission describes one recorded submission of a results directory.
type Submission struct {
	Key         string    `json:"key"`
	RunName     string    `json:"run_name"`
	Source      string    `json:"source"`
	Files       int       `json:"files"`
	SubmittedAt time.Time `json:"submitted_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Store tracks submitted result fingerprints.
type Store interface {
	Close() error
	Lookup(key string) (Submission, bool, error)
	Record(sub Submission) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

const (
	defaultTTL             = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                            { return nil }
func (noopStore) Lookup(string) (Submission, bool, error) { return Submission{}, false, nil }
func (noopStore) Record(Submission) error                 { return nil }
