package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/previdsoft/procsync/internal/store"
	"github.com/previdsoft/procsync/internal/tenant"
)

// Summary is what one sync run reports back to the caller.
type Summary struct {
	Processados           int
	Mudancas              int
	Total                 int
	HistoricoDisponivel   bool
	ProtocoladoDisponivel bool
}

// Engine reconciles incoming processo batches against the store: idempotent
// upserts keyed by (protocolo, empresa), situacao transition detection, and
// an append-only transition history.
type Engine struct {
	resolver *tenant.Resolver
	storage  *store.Storage
	validate *validator.Validate
	log      *logrus.Logger
}

func NewEngine(resolver *tenant.Resolver, storage *store.Storage, log *logrus.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		storage:  storage,
		validate: validator.New(),
		log:      log,
	}
}

// Sync reconciles one batch for one tenant. The whole batch runs inside a
// single transaction; an unexpected storage error rolls everything back. A
// write failure on a single item is the one tolerated exception: it is
// logged, the item is not counted, and the batch continues.
//
// Transition detection always compares against the state read before the
// batch started. A protocolo repeated within one batch is compared against
// that same pre-batch value both times; comparisons are not chained through
// earlier writes of the same batch.
func (e *Engine) Sync(ctx context.Context, credential string, empresaID int64, items []ItemInput) (*Summary, error) {
	empresa, err := e.resolver.Authorize(ctx, empresaID, credential)
	if err != nil {
		return nil, err
	}

	caps := e.storage.Schema.Ensure(ctx)

	summary := &Summary{
		Total:                 len(items),
		HistoricoDisponivel:   caps.Historico,
		ProtocoladoDisponivel: caps.ProtocoladoEm,
	}

	now := time.Now()
	accepted := make([]Item, 0, len(items))
	for _, in := range items {
		decision := e.screen(in, now)
		if !decision.Accepted {
			e.log.WithFields(logrus.Fields{
				"endpoint":  "sync",
				"empresa":   empresa.ID,
				"protocolo": in.Protocolo,
			}).Debug("item descartado: " + decision.Reason)
			continue
		}
		accepted = append(accepted, decision.Item)
	}

	if len(accepted) == 0 {
		return summary, nil
	}

	protocolos := make([]string, 0, len(accepted))
	seen := make(map[string]struct{}, len(accepted))
	for _, item := range accepted {
		if _, ok := seen[item.Protocolo]; ok {
			continue
		}
		seen[item.Protocolo] = struct{}{}
		protocolos = append(protocolos, item.Protocolo)
	}

	snapshots, err := e.storage.Processos.GetSnapshots(ctx, empresa.ID, protocolos)
	if err != nil {
		return nil, fmt.Errorf("sync: snapshot fetch: %w", err)
	}

	tx, err := e.storage.Processos.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: begin: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	for _, item := range accepted {
		snap, exists := snapshots[item.Protocolo]
		if exists && snap.Situacao != item.Situacao {
			summary.Mudancas++
			if caps.Historico {
				historico := &store.HistoricoSituacao{
					ProcessoID:       snap.ID,
					SituacaoAnterior: snap.Situacao,
					SituacaoNova:     item.Situacao,
					EmpresaID:        empresa.ID,
					DataMudanca:      now,
				}
				// Best effort: the trail is a derived record, losing one
				// entry must not fail the item.
				if err := tx.InsertHistorico(ctx, historico); err != nil {
					e.log.WithFields(logrus.Fields{
						"endpoint":  "sync",
						"empresa":   empresa.ID,
						"protocolo": item.Protocolo,
					}).Warn("falha ao registrar histórico: " + err.Error())
				}
			}
		}

		processo := &store.Processo{
			Protocolo:         item.Protocolo,
			CPF:               item.CPF,
			Servico:           item.Servico,
			Situacao:          item.Situacao,
			Nome:              item.Nome,
			UltimaAtualizacao: item.UltimaAtualizacao,
			ProtocoladoEm:     item.ProtocoladoEm,
			EmpresaID:         empresa.ID,
		}
		if err := tx.Upsert(ctx, processo, caps); err != nil {
			e.log.WithFields(logrus.Fields{
				"endpoint":  "sync",
				"empresa":   empresa.ID,
				"protocolo": item.Protocolo,
			}).Error("falha ao gravar processo: " + err.Error())
			continue
		}
		summary.Processados++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sync: commit: %w", err)
	}
	committed = true

	return summary, nil
}
