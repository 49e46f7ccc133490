package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/previdsoft/procsync/internal/store"
)

var (
	// ErrMissingCredential means no usable API key was supplied; no lookup
	// is attempted.
	ErrMissingCredential = errors.New("tenant: missing credential")

	// ErrUnknownTenant covers both an unknown key and an id/key mismatch,
	// so callers cannot tell which check failed.
	ErrUnknownTenant = errors.New("tenant: unknown tenant")
)

type EmpresaGetter interface {
	GetByAPIKey(ctx context.Context, key string) (*store.Empresa, error)
	GetByIDAndAPIKey(ctx context.Context, id int64, key string) (*store.Empresa, error)
}

// Resolver maps an opaque API key to a tenant. Read-only.
type Resolver struct {
	empresas EmpresaGetter
}

func NewResolver(empresas EmpresaGetter) *Resolver {
	return &Resolver{empresas: empresas}
}

// NormalizeKey extracts the significant token from a raw credential. Some
// integrations send the key as a comma-separated list with trailing extra
// tokens; only the first element counts.
func NormalizeKey(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

// Resolve matches a tenant by key alone. Used by the lookup endpoint.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*store.Empresa, error) {
	key := NormalizeKey(raw)
	if key == "" {
		return nil, ErrMissingCredential
	}

	empresa, err := r.empresas.GetByAPIKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownTenant
		}
		return nil, err
	}
	return empresa, nil
}

// Authorize matches id and key together; a row only comes back when both
// belong to the same tenant. Used by the sync endpoint, which receives the
// tenant id in the request body.
func (r *Resolver) Authorize(ctx context.Context, empresaID int64, raw string) (*store.Empresa, error) {
	key := NormalizeKey(raw)
	if key == "" {
		return nil, ErrMissingCredential
	}

	empresa, err := r.empresas.GetByIDAndAPIKey(ctx, empresaID, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownTenant
		}
		return nil, err
	}
	return empresa, nil
}
