package store

import (
	"database/sql"
	"time"
)

// Empresa represents the 'empresas' table. The API key is the tenant
// credential; this service only reads it, onboarding writes it elsewhere.
type Empresa struct {
	ID          int64  `db:"id"`
	RazaoSocial string `db:"razao_social"`
	APIKey      string `db:"api_key"`
}

// Processo represents the 'processos' table. (protocolo, empresa_id) is the
// business key. situacao_anterior holds only the immediately preceding
// situacao; the full trail lives in historico_situacoes.
type Processo struct {
	ID                int64          `db:"id"`
	Protocolo         string         `db:"protocolo"`
	CPF               string         `db:"cpf"`
	Servico           string         `db:"servico"`
	Situacao          string         `db:"situacao"`
	SituacaoAnterior  sql.NullString `db:"situacao_anterior"`
	UltimaAtualizacao time.Time      `db:"ultima_atualizacao"`
	ProtocoladoEm     sql.NullTime   `db:"protocolado_em"`
	Nome              string         `db:"nome"`
	EmpresaID         int64          `db:"empresa_id"`
	InsertedAt        time.Time      `db:"inserted_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

// HistoricoSituacao represents the append-only 'historico_situacoes' table.
type HistoricoSituacao struct {
	ID               int64     `db:"id"`
	ProcessoID       int64     `db:"processo_id"`
	SituacaoAnterior string    `db:"situacao_anterior"`
	SituacaoNova     string    `db:"situacao_nova"`
	EmpresaID        int64     `db:"empresa_id"`
	DataMudanca      time.Time `db:"data_mudanca"`
}

// Snapshot is the pre-batch view of an existing processo.
type Snapshot struct {
	ID       int64  `db:"id"`
	Situacao string `db:"situacao"`
}

// Capabilities reports which optional structures the store currently has.
// Recomputed by the schema guard at the start of every sync, since the store
// may be mid-migration between calls.
type Capabilities struct {
	Historico        bool
	SituacaoAnterior bool
	ProtocoladoEm    bool
}
