package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
)

// Provider implements a cache backed by files in a directory
// Entries older than the ttl are treated as missing and removed on read
type Provider struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// New returns a new Provider instance, creating the directory if needed
func New(path string, ttl time.Duration) (*Provider, error) {
	if path == "" {
		return nil, fmt.Errorf("no cache path given")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Provider{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

func (p *Provider) filePath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", cache.ErrInvalidKey
	}

	return filepath.Join(p.path, key), nil
}

// Get returns an object from the cache if it exists and has not expired
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := p.filePath(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cache.ErrNotFound
		}

		return nil, err
	}

	if p.ttl > 0 && p.now().Sub(info.ModTime()) > p.ttl {
		os.Remove(path)
		return nil, cache.ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cache.ErrNotFound
		}

		return nil, err
	}

	return data, nil
}

// Set writes an object to the cache
// The write goes through a temporary file so readers never see a partial entry
func (p *Provider) Set(ctx context.Context, key string, data []byte) error {
	path, err := p.filePath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(p.path, ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
