package response

// SyncResult is the body of a successful POST /sync. Field names are part of
// the wire contract with existing callers and must not change.
type SyncResult struct {
	Success               bool   `json:"success"`
	Processados           int    `json:"processados"`
	Mudancas              int    `json:"mudancas"`
	Total                 int    `json:"total"`
	Message               string `json:"message"`
	HistoricoDisponivel   bool   `json:"historico_disponivel"`
	ProtocoladoDisponivel bool   `json:"protocolado_disponivel"`
}

// TenantResult is the body of a successful GET /tenant.
type TenantResult struct {
	Success     bool   `json:"success"`
	IDEmpresa   int64  `json:"id_empresa"`
	RazaoSocial string `json:"razao_social"`
}

// ErrorResponse carries only a short generic message; diagnostic detail
// stays in the operational log.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
