package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Installer provisions the browser driver binary used by a Fetcher and
// reports the path of the installed executable.
type Installer interface {
	Install(ctx context.Context) (string, error)
}

// SharedInstaller wraps an Installer so concurrent callers share one install.
// The first successful install is cached for the lifetime of the process;
// failures are not cached, so the next caller retries.
type SharedInstaller struct {
	inner Installer

	group singleflight.Group

	mu   sync.Mutex
	path string
}

func NewSharedInstaller(inner Installer) *SharedInstaller {
	return &SharedInstaller{inner: inner}
}

func (s *SharedInstaller) Install(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.path != "" {
		p := s.path
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("driver-install", func() (interface{}, error) {
		return s.inner.Install(ctx)
	})
	if err != nil {
		return "", err
	}

	p := v.(string)
	s.mu.Lock()
	s.path = p
	s.mu.Unlock()
	return p, nil
}
