// Package rest wraps the runtime API endpoints. Each adapter owns a URL prefix
// and a map of named endpoints relative to it.
package rest

import (
	"context"
	"fmt"

	"github.com/JakeFAU/quantum-runtime-client/internal/session"
)

// Session is the HTTP layer the adapters rely on.
type Session interface {
	Get(ctx context.Context, path string) (*session.Response, error)
	Post(ctx context.Context, path string, payload any) (*session.Response, error)
	Delete(ctx context.Context, path string) (*session.Response, error)
}

// Base holds what every adapter shares.
type Base struct {
	session Session
	prefix  string
	urls    map[string]string
}

func newBase(s Session, prefix string, urls map[string]string) Base {
	return Base{session: s, prefix: prefix, urls: urls}
}

// URL returns the path of the named endpoint.
func (b Base) URL(name string) (string, error) {
	suffix, ok := b.urls[name]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", name)
	}
	return b.prefix + suffix, nil
}

// Prefix returns the path shared by all endpoints of the adapter.
func (b Base) Prefix() string {
	return b.prefix
}

func (b Base) get(ctx context.Context, name string) (*session.Response, error) {
	path, err := b.URL(name)
	if err != nil {
		return nil, err
	}
	resp, err := b.session.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return resp, nil
}

func (b Base) post(ctx context.Context, name string) (*session.Response, error) {
	path, err := b.URL(name)
	if err != nil {
		return nil, err
	}
	resp, err := b.session.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", name, err)
	}
	return resp, nil
}

func (b Base) delete(ctx context.Context, name string) (*session.Response, error) {
	path, err := b.URL(name)
	if err != nil {
		return nil, err
	}
	resp, err := b.session.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", name, err)
	}
	return resp, nil
}
