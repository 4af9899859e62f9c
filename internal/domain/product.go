package domain

// ProductRecord is one row of the price catalog. Records are loaded once at
// startup and never mutated afterwards; the whole catalog is shared read-only
// across requests.
type ProductRecord struct {
	Description string `json:"descripcion"`
	CashPrice   string `json:"precio_contado"`
	CardPrice   string `json:"precio_tarjeta"`
	Segment     string `json:"segmento"`
}

// MatchResult is a catalog row paired with its similarity score for one
// query. Two results refer to the same product iff their descriptions are
// equal; that is the dedup key for combined batch results.
type MatchResult struct {
	Description string `json:"descripcion"`
	CashPrice   string `json:"precio_contado"`
	CardPrice   string `json:"precio_tarjeta"`
	Segment     string `json:"segmento"`
	Score       int    `json:"score"`
}

// SegmentInfo is one entry of the segment listing endpoint.
type SegmentInfo struct {
	Segment      string `json:"segmento"`
	ProductCount int    `json:"cantidad_productos"`
}

// SegmentsResponse is the payload of GET /segmentos.
type SegmentsResponse struct {
	Segments      []SegmentInfo `json:"segmentos"`
	TotalSegments int           `json:"total_segmentos"`
}
