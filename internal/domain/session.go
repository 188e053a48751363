package domain

import (
	"context"
	"errors"
)

// ErrStateNotFound is returned by a StateRepository when no record exists
// for a namespace.
var ErrStateNotFound = errors.New("state not found")

// Session is the client's view of the authenticated user and bearer token.
// IsAuthenticated holds only when Token and User are both set and the last
// validation of Token succeeded.
type Session struct {
	Token           string       `json:"token,omitempty"`
	User            *UserProfile `json:"user,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
}

// PersistedSession is the durable subset of Session. IsLoading is never
// written.
type PersistedSession struct {
	Token           string       `json:"token,omitempty"`
	User            *UserProfile `json:"user,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// Empty reports whether the record carries no credentials.
func (p PersistedSession) Empty() bool {
	return p.Token == "" && p.User == nil && !p.IsAuthenticated
}

// StateRepository stores opaque records keyed by namespace.
type StateRepository interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Put(ctx context.Context, namespace string, payload []byte) error
	Delete(ctx context.Context, namespace string) error
	Ping(ctx context.Context) error
	Close() error
}
