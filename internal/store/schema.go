package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SchemaStore struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// Migrate creates the baseline tables. It runs once at startup and every
// statement is idempotent. The optional structures (historico_situacoes,
// situacao_anterior, protocolado_em) are owned by Ensure instead, so a store
// where those migrations have not landed yet is a reachable state.
func (ss *SchemaStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS empresas (
			id BIGSERIAL PRIMARY KEY,
			razao_social TEXT NOT NULL,
			api_key TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS processos (
			id BIGSERIAL PRIMARY KEY,
			protocolo TEXT NOT NULL,
			cpf TEXT NOT NULL,
			servico TEXT NOT NULL DEFAULT '',
			situacao TEXT NOT NULL DEFAULT '',
			nome TEXT NOT NULL DEFAULT '',
			ultima_atualizacao TIMESTAMPTZ NOT NULL DEFAULT now(),
			empresa_id BIGINT NOT NULL,
			inserted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (protocolo, empresa_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := ss.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Ensure runs the three guard steps and reports which optional structures
// are usable. Each step is independent and non-fatal: a failure is logged
// and the matching capability stays false, so the batch proceeds with
// reduced functionality instead of aborting.
func (ss *SchemaStore) Ensure(ctx context.Context) Capabilities {
	return Capabilities{
		Historico:        ss.ensureHistoricoTable(ctx),
		SituacaoAnterior: ss.ensureColumn(ctx, "situacao_anterior", `ALTER TABLE processos ADD COLUMN IF NOT EXISTS situacao_anterior TEXT`),
		ProtocoladoEm:    ss.ensureColumn(ctx, "protocolado_em", `ALTER TABLE processos ADD COLUMN IF NOT EXISTS protocolado_em TIMESTAMPTZ`),
	}
}

func (ss *SchemaStore) ensureHistoricoTable(ctx context.Context) bool {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS historico_situacoes (
			id BIGSERIAL PRIMARY KEY,
			processo_id BIGINT NOT NULL,
			situacao_anterior TEXT NOT NULL DEFAULT '',
			situacao_nova TEXT NOT NULL DEFAULT '',
			empresa_id BIGINT NOT NULL,
			data_mudanca TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_historico_processo_empresa ON historico_situacoes (processo_id, empresa_id)`,
		`CREATE INDEX IF NOT EXISTS idx_historico_data_mudanca ON historico_situacoes (data_mudanca)`,
	}

	for _, stmt := range stmts {
		if _, err := ss.db.ExecContext(ctx, stmt); err != nil {
			ss.log.WithFields(logrus.Fields{"component": "SchemaGuard", "step": "historico_situacoes"}).Warn(err.Error())
			return ss.tableExists(ctx, "historico_situacoes")
		}
	}
	return true
}

func (ss *SchemaStore) ensureColumn(ctx context.Context, column, stmt string) bool {
	if _, err := ss.db.ExecContext(ctx, stmt); err != nil {
		ss.log.WithFields(logrus.Fields{"component": "SchemaGuard", "step": column}).Warn(err.Error())
		// The ALTER can fail for reasons other than absence (permissions,
		// migration lock); the column may still be there and usable.
		return ss.columnExists(ctx, "processos", column)
	}
	return true
}

func (ss *SchemaStore) tableExists(ctx context.Context, table string) bool {
	query := `SELECT count(*) FROM information_schema.tables WHERE table_name = $1`

	var n int
	if err := ss.db.GetContext(ctx, &n, query, table); err != nil {
		return false
	}
	return n > 0
}

func (ss *SchemaStore) columnExists(ctx context.Context, table, column string) bool {
	query := `SELECT count(*) FROM information_schema.columns WHERE table_name = $1 AND column_name = $2`

	var n int
	if err := ss.db.GetContext(ctx, &n, query, table, column); err != nil {
		return false
	}
	return n > 0
}
