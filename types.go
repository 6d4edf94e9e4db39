package delos

import "time"

// JSONObject is an alias for map[string]any, representing a JSON object.
// Use this for free-form input, output, and metadata payloads.
//
// Example:
//
//	input := delos.JSONObject{"question": "What is Go?"}
type JSONObject = map[string]any

// Page is one page of a listed collection. It carries the server-reported
// total alongside the window that was requested.
type Page[T any] struct {
	// Items are the entities in this page, in server order.
	Items []T

	// TotalCount is the total number of matching entities on the server.
	TotalCount int

	// Limit is the page size that was requested.
	Limit int

	// Offset is the page start that was requested.
	Offset int
}

// HasMore returns true when entities beyond this page exist.
func (p *Page[T]) HasMore() bool {
	return p.Offset+len(p.Items) < p.TotalCount
}

// TimePtr returns a pointer to t.
// Use this to populate optional timestamp fields.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// limitOrDefault resolves a page size for the wire, falling back to
// DefaultLimit for zero and negative values.
func limitOrDefault(limit int) int32 {
	if limit <= 0 {
		return DefaultLimit
	}
	return int32(limit)
}
