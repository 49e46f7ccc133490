package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type EmpresaStore struct {
	db *sqlx.DB
}

func (es *EmpresaStore) GetByAPIKey(ctx context.Context, key string) (*Empresa, error) {
	query := `SELECT id, razao_social, api_key FROM empresas WHERE api_key = $1`

	var empresa Empresa
	if err := es.db.GetContext(ctx, &empresa, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &empresa, nil
}

// GetByIDAndAPIKey binds id and key in a single predicate, so a valid key
// can never be replayed against another tenant's id.
func (es *EmpresaStore) GetByIDAndAPIKey(ctx context.Context, id int64, key string) (*Empresa, error) {
	query := `SELECT id, razao_social, api_key FROM empresas WHERE id = $1 AND api_key = $2`

	var empresa Empresa
	if err := es.db.GetContext(ctx, &empresa, query, id, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &empresa, nil
}
