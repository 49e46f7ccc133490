package reconcile

import (
	"database/sql"
	"strings"
	"time"
)

// ItemInput is one processo as submitted by the scraper. JSON field names
// are part of the wire contract.
type ItemInput struct {
	Protocolo         string `json:"protocolo" validate:"required,min=3"`
	CPF               string `json:"cpf" validate:"required,min=8"`
	Servico           string `json:"servico"`
	Situacao          string `json:"situacao"`
	Nome              string `json:"nome"`
	UltimaAtualizacao string `json:"ultimaAtualizacao"`
	DataProtocolo     string `json:"dataProtocolo"`
}

// Decision tags one screened batch item: accepted with a normalized Item, or
// skipped with the reason kept for the log. Skipped items still count toward
// the batch total, never toward processados.
type Decision struct {
	Accepted bool
	Reason   string
	Item     Item
}

// Item is a screened, timestamp-normalized batch entry ready for the store.
type Item struct {
	Protocolo         string
	CPF               string
	Servico           string
	Situacao          string
	Nome              string
	UltimaAtualizacao time.Time
	ProtocoladoEm     sql.NullTime
}

// screen validates one incoming item and normalizes its timestamps. A
// missing or unparseable ultimaAtualizacao falls back to now; a missing
// dataProtocolo stays null so it can never overwrite a recorded filing date.
func (e *Engine) screen(in ItemInput, now time.Time) Decision {
	in.Protocolo = strings.TrimSpace(in.Protocolo)
	in.CPF = strings.TrimSpace(in.CPF)

	if err := e.validate.Struct(in); err != nil {
		return Decision{Reason: err.Error()}
	}

	item := Item{
		Protocolo:         in.Protocolo,
		CPF:               in.CPF,
		Servico:           in.Servico,
		Situacao:          in.Situacao,
		Nome:              in.Nome,
		UltimaAtualizacao: parseTimestampOr(in.UltimaAtualizacao, now),
	}
	if in.DataProtocolo != "" {
		item.ProtocoladoEm = sql.NullTime{Time: parseTimestampOr(in.DataProtocolo, now), Valid: true}
	}

	return Decision{Accepted: true, Item: item}
}
