package main

import (
	"errors"
	"net/http"

	"github.com/previdsoft/procsync/internal/reconcile"
	"github.com/previdsoft/procsync/internal/response"
	"github.com/previdsoft/procsync/internal/tenant"
)

type syncRequest struct {
	IDEmpresa *int64                 `json:"id_empresa"`
	Processos *[]reconcile.ItemInput `json:"processos"`
}

// @Summary		Sync processos
// @Description	Reconciles a batch of processos for one tenant: idempotent upserts, situacao transition detection and history.
// @Tags			Sync
// @Accept			json
// @Produce		json
// @Param			X-API-Key	header		string					true	"Tenant API key"
// @Param			batch		body		syncRequest				true	"Batch of processos"
// @Success		200			{object}	response.SyncResult		"Batch reconciled"
// @Failure		400			{object}	response.ErrorResponse	"Malformed request body"
// @Failure		401			{object}	response.ErrorResponse	"Missing or invalid credential"
// @Failure		500			{object}	response.ErrorResponse	"Internal failure, batch rolled back"
// @Router			/sync [post]
func (app *application) handleSync(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get("X-API-Key")

	var input syncRequest
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	if input.IDEmpresa == nil || input.Processos == nil {
		writeJSONError(w, http.StatusBadRequest, "Campos obrigatórios ausentes")
		return
	}

	summary, err := app.engine.Sync(r.Context(), credential, *input.IDEmpresa, *input.Processos)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrMissingCredential), errors.Is(err, tenant.ErrUnknownTenant):
			writeJSONError(w, http.StatusUnauthorized, "Credencial inválida ou ausente")
		default:
			app.log.WithField("endpoint", "sync").Error(err.Error())
			writeJSONError(w, http.StatusInternalServerError, "Erro interno ao sincronizar")
		}
		return
	}

	result := &response.SyncResult{
		Success:               true,
		Processados:           summary.Processados,
		Mudancas:              summary.Mudancas,
		Total:                 summary.Total,
		Message:               "Sincronização concluída",
		HistoricoDisponivel:   summary.HistoricoDisponivel,
		ProtocoladoDisponivel: summary.ProtocoladoDisponivel,
	}

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Erro interno")
	}
}
