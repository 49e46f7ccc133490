package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

type ProcessoStore struct {
	db *sqlx.DB
}

// GetSnapshots fetches the current state of every listed protocolo for one
// tenant in a single query. Protocolos with no row are simply absent from
// the returned map.
func (ps *ProcessoStore) GetSnapshots(ctx context.Context, empresaID int64, protocolos []string) (map[string]Snapshot, error) {
	snapshots := make(map[string]Snapshot, len(protocolos))
	if len(protocolos) == 0 {
		return snapshots, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, protocolo, situacao FROM processos WHERE empresa_id = ? AND protocolo IN (?)`,
		empresaID, protocolos)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID        int64  `db:"id"`
		Protocolo string `db:"protocolo"`
		Situacao  string `db:"situacao"`
	}
	if err := ps.db.SelectContext(ctx, &rows, ps.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	for _, r := range rows {
		snapshots[r.Protocolo] = Snapshot{ID: r.ID, Situacao: r.Situacao}
	}
	return snapshots, nil
}

func (ps *ProcessoStore) Begin(ctx context.Context) (ProcessoTx, error) {
	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &processoTx{tx: tx}, nil
}

type processoTx struct {
	tx *sqlx.Tx
}

// buildUpsertQuery assembles the INSERT ... ON CONFLICT variant matching the
// store's current capabilities. situacao_anterior keeps its old value when
// the incoming situacao is unchanged; protocolado_em is first-write-wins.
func buildUpsertQuery(caps Capabilities) string {
	cols := []string{"protocolo", "cpf", "servico", "situacao", "nome", "ultima_atualizacao", "empresa_id", "inserted_at", "updated_at"}
	vals := []string{":protocolo", ":cpf", ":servico", ":situacao", ":nome", ":ultima_atualizacao", ":empresa_id", "now()", "now()"}

	sets := []string{
		"cpf = EXCLUDED.cpf",
		"servico = EXCLUDED.servico",
	}
	if caps.SituacaoAnterior {
		sets = append(sets, "situacao_anterior = CASE WHEN processos.situacao IS DISTINCT FROM EXCLUDED.situacao THEN processos.situacao ELSE processos.situacao_anterior END")
	}
	sets = append(sets,
		"situacao = EXCLUDED.situacao",
		"nome = EXCLUDED.nome",
		"ultima_atualizacao = EXCLUDED.ultima_atualizacao",
	)
	if caps.ProtocoladoEm {
		cols = append(cols, "protocolado_em")
		vals = append(vals, ":protocolado_em")
		sets = append(sets, "protocolado_em = COALESCE(processos.protocolado_em, EXCLUDED.protocolado_em)")
	}
	sets = append(sets, "updated_at = now()")

	return `INSERT INTO processos (` + strings.Join(cols, ", ") + `)
	VALUES (` + strings.Join(vals, ", ") + `)
	ON CONFLICT (protocolo, empresa_id) DO UPDATE SET ` + strings.Join(sets, ",\n\t\t")
}

func (t *processoTx) Upsert(ctx context.Context, p *Processo, caps Capabilities) error {
	return t.withSavepoint(ctx, "sync_processo", func() error {
		_, err := t.tx.NamedExecContext(ctx, buildUpsertQuery(caps), p)
		return err
	})
}

func (t *processoTx) InsertHistorico(ctx context.Context, h *HistoricoSituacao) error {
	query := `INSERT INTO historico_situacoes (
		processo_id,
		situacao_anterior,
		situacao_nova,
		empresa_id,
		data_mudanca
	) VALUES (
		:processo_id,
		:situacao_anterior,
		:situacao_nova,
		:empresa_id,
		:data_mudanca
	)`

	return t.withSavepoint(ctx, "sync_historico", func() error {
		_, err := t.tx.NamedExecContext(ctx, query, h)
		return err
	})
}

// withSavepoint isolates one statement so its failure does not abort the
// surrounding transaction. Postgres marks the whole transaction failed after
// any statement error; rolling back to the savepoint clears that state.
func (t *processoTx) withSavepoint(ctx context.Context, name string, fn func() error) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return rbErr
		}
		return err
	}
	_, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (t *processoTx) Commit() error {
	return t.tx.Commit()
}

func (t *processoTx) Rollback() error {
	return t.tx.Rollback()
}
