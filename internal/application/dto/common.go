package dto

// DataResponse envelope de éxito: {message, data}.
type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// PagedResponse envelope de éxito paginado: {message, data, total, page, limit, totalPages}.
type PagedResponse struct {
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// ErrorResponse envelope de fallo: {error, message?}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PageRequest paginación para listados. Page y Limit se ajustan a positivos.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Clamp aplica valores por defecto (page=1, limit=10) y topes.
func (p *PageRequest) Clamp() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset calcula el desplazamiento SQL a partir de page/limit.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages calcula el número de páginas para un total dado.
func (p PageRequest) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return int(pages)
}
