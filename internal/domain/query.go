package domain

// SingleQuery is the legacy single-search call shape: one free-text query
// with an optional segment filter. Segment is a pointer so an explicitly
// present empty filter can be rejected instead of reading as absent.
type SingleQuery struct {
	Text    string  `json:"consulta"`
	Segment *string `json:"segmento,omitempty"`
}

// BatchQuery is the list call shape. Even a one-element batch keeps the
// nested response shape; callers rely on the distinction.
type BatchQuery struct {
	Items []SingleQuery `json:"consultas"`
}

// SingleResponse is the flat response returned for SingleQuery calls.
type SingleResponse struct {
	Query         string        `json:"consulta"`
	Results       []MatchResult `json:"resultados"`
	TotalFound    int           `json:"total_encontrados"`
	SegmentFilter string        `json:"segmento_filtrado,omitempty"`
}

// ProcessedQuery is the per-item result inside a batch response.
type ProcessedQuery struct {
	Query         string        `json:"consulta"`
	Results       []MatchResult `json:"resultados"`
	TotalFound    int           `json:"total_encontrados"`
	SegmentFilter string        `json:"segmento_filtrado,omitempty"`
}

// BatchResponse is the nested response for BatchQuery calls: the per-query
// results plus a combined list deduplicated by description and re-sorted by
// score.
type BatchResponse struct {
	Processed     []ProcessedQuery `json:"consultas_procesadas"`
	Combined      []MatchResult    `json:"resultados_combinados"`
	TotalQueries  int              `json:"total_consultas"`
	TotalCombined int              `json:"total_encontrados_combinados"`
}
