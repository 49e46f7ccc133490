package store

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("store: not found")

type Storage struct {
	Empresas interface {
		GetByAPIKey(ctx context.Context, key string) (*Empresa, error)
		GetByIDAndAPIKey(ctx context.Context, id int64, key string) (*Empresa, error)
	}

	Processos interface {
		GetSnapshots(ctx context.Context, empresaID int64, protocolos []string) (map[string]Snapshot, error)
		Begin(ctx context.Context) (ProcessoTx, error)
	}

	Schema interface {
		Migrate(ctx context.Context) error
		Ensure(ctx context.Context) Capabilities
	}
}

// ProcessoTx is one sync batch's transaction. Upsert and InsertHistorico run
// their statements under savepoints, so a failed item leaves the transaction
// usable for the rest of the batch.
type ProcessoTx interface {
	Upsert(ctx context.Context, p *Processo, caps Capabilities) error
	InsertHistorico(ctx context.Context, h *HistoricoSituacao) error
	Commit() error
	Rollback() error
}

func NewStorage(db *sqlx.DB, log *logrus.Logger) *Storage {
	return &Storage{
		Empresas:  &EmpresaStore{db: db},
		Processos: &ProcessoStore{db: db},
		Schema:    &SchemaStore{db: db, log: log},
	}
}
