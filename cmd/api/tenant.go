package main

import (
	"errors"
	"net/http"

	"github.com/previdsoft/procsync/internal/response"
	"github.com/previdsoft/procsync/internal/tenant"
)

// @Summary		Tenant lookup
// @Description	Resolves an API key to the tenant id and display name.
// @Tags			Tenant
// @Produce		json
// @Param			X-API-Key	header		string					false	"Tenant API key"
// @Param			api_key		query		string					false	"Tenant API key (fallback when the header is absent)"
// @Success		200			{object}	response.TenantResult	"Tenant resolved"
// @Failure		401			{object}	response.ErrorResponse	"Missing or invalid credential"
// @Failure		500			{object}	response.ErrorResponse	"Internal failure"
// @Router			/tenant [get]
func (app *application) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get("X-API-Key")
	if credential == "" {
		credential = r.URL.Query().Get("api_key")
	}

	empresa, err := app.tenants.Resolve(r.Context(), credential)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrMissingCredential), errors.Is(err, tenant.ErrUnknownTenant):
			writeJSONError(w, http.StatusUnauthorized, "Credencial inválida ou ausente")
		default:
			app.log.WithField("endpoint", "tenant").Error(err.Error())
			writeJSONError(w, http.StatusInternalServerError, "Erro interno")
		}
		return
	}

	result := &response.TenantResult{
		Success:     true,
		IDEmpresa:   empresa.ID,
		RazaoSocial: empresa.RazaoSocial,
	}

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Erro interno")
	}
}
