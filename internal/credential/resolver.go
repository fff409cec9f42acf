package credential

import (
	"context"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
)

// TokenType is the authorization scheme the Lost Ark API expects.
const TokenType = "bearer"

// Source reports where the effective credential came from.
type Source string

const (
	SourceStored  Source = "stored"
	SourceDefault Source = "default"
	SourceNone    Source = "none"
)

// Resolver picks the credential for each request: a non-empty stored value
// wins over the build-time default, otherwise the result is "".
// Nothing is cached, so a Write or Clear applies to the very next request.
type Resolver struct {
	store      Store
	defaultKey string
	logger     arbor.ILogger
}

// NewResolver returns a Resolver reading from store. store may be nil, in
// which case only defaultKey is considered.
func NewResolver(store Store, defaultKey string, logger arbor.ILogger) *Resolver {
	return &Resolver{store: store, defaultKey: defaultKey, logger: logger}
}

// Resolve returns the credential to send.
func (r *Resolver) Resolve(ctx context.Context) string {
	key, _ := r.resolve(ctx)
	return key
}

// Source returns which layer Resolve would use, without exposing the value.
func (r *Resolver) Source(ctx context.Context) Source {
	_, src := r.resolve(ctx)
	return src
}

func (r *Resolver) resolve(ctx context.Context) (string, Source) {
	if stored := r.stored(ctx); stored != "" {
		return stored, SourceStored
	}
	if r.defaultKey != "" {
		return r.defaultKey, SourceDefault
	}
	return "", SourceNone
}

// stored treats an unreadable store as empty so lookups keep working with
// the default key.
func (r *Resolver) stored(ctx context.Context) string {
	if r.store == nil {
		return ""
	}
	value, err := r.store.Read(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn().Err(err).Msg("Failed to read stored API key, using default")
		}
		return ""
	}
	return value
}

// Token implements oauth2.TokenSource.
func (r *Resolver) Token() (*oauth2.Token, error) {
	return &oauth2.Token{
		AccessToken: r.Resolve(context.Background()),
		TokenType:   TokenType,
	}, nil
}

var _ oauth2.TokenSource = (*Resolver)(nil)
