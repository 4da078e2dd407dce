package state

import "time"

// VersionRecord is one row of the version audit log.
type VersionRecord struct {
	VersionID     int64     `json:"version_id"`
	VersionNumber int       `json:"version_number"`
	TableName     string    `json:"table_name"`
	TotalRows     int       `json:"total_rows"`
	ChangedRows   int       `json:"changed_rows"`
	OperationType string    `json:"operation_type"`
	Reason        string    `json:"reason"`
	TriggeredBy   string    `json:"triggered_by"`
	Timestamp     time.Time `json:"timestamp"`
	DocID         string    `json:"doc_id,omitempty"`
	Filename      string    `json:"filename,omitempty"`
	FileType      string    `json:"file_type,omitempty"`
	NumChunks     int       `json:"num_chunks,omitempty"`
}

// VersionComparison joins two version entries of the same table.
type VersionComparison struct {
	V1Version     int       `json:"v1_version"`
	V1TotalRows   int       `json:"v1_total_rows"`
	V1ChangedRows int       `json:"v1_changed_rows"`
	V1Operation   string    `json:"v1_operation"`
	V2Version     int       `json:"v2_version"`
	V2TotalRows   int       `json:"v2_total_rows"`
	V2ChangedRows int       `json:"v2_changed_rows"`
	V2Operation   string    `json:"v2_operation"`
	RowDifference int       `json:"row_difference"`
	Reason        string    `json:"reason"`
	TriggeredBy   string    `json:"triggered_by"`
	Timestamp     time.Time `json:"timestamp"`
	DocID         string    `json:"doc_id,omitempty"`
	Filename      string    `json:"filename,omitempty"`
}

type ScoredChunk struct {
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	ChunkIndex int     `json:"chunk_index"`
}

// DocumentMatch groups the chunks of one document returned by a vector query.
type DocumentMatch struct {
	DocID             string        `json:"doc_id"`
	Filename          string        `json:"filename"`
	Uploader          string        `json:"uploader"`
	TableName         string        `json:"table_name,omitempty"`
	Action            string        `json:"action"`
	HCPName           string        `json:"hcp_name,omitempty"`
	HCPEmail          string        `json:"hcp_email,omitempty"`
	Timestamp         string        `json:"timestamp,omitempty"`
	ChangeDescription string        `json:"change_description,omitempty"`
	Chunks            []ScoredChunk `json:"chunks"`
	AvgSimilarity     float64       `json:"avg_similarity"`
}

// BestChunk returns the highest-similarity chunk.
func (d DocumentMatch) BestChunk() (ScoredChunk, bool) {
	if len(d.Chunks) == 0 {
		return ScoredChunk{}, false
	}
	best := d.Chunks[0]
	for _, c := range d.Chunks[1:] {
		if c.Similarity > best.Similarity {
			best = c
		}
	}
	return best, true
}

type HybridResult struct {
	VersionMetadata []VersionRecord `json:"version_metadata"`
	Documents       []DocumentMatch `json:"document_matches"`
	TotalMatches    int             `json:"total_matches"`
}

// Result is a route-tagged union. Only the fields belonging to Route are set.
type Result struct {
	Route Route `json:"route,omitempty"`

	Rows []map[string]any `json:"rows,omitempty"`

	Versions     []VersionRecord     `json:"versions,omitempty"`
	Comparisons  []VersionComparison `json:"comparisons,omitempty"`
	IsComparison bool                `json:"is_comparison,omitempty"`

	Hybrid *HybridResult `json:"hybrid,omitempty"`

	Documents []DocumentMatch `json:"documents,omitempty"`
}

func Empty(route Route) Result {
	return Result{Route: route}
}

func RelationalResult(rows []map[string]any) Result {
	return Result{Route: RouteRelational, Rows: rows}
}

func VersionResult(records []VersionRecord) Result {
	return Result{Route: RouteVersion, Versions: records}
}

func ComparisonResult(rows []VersionComparison) Result {
	return Result{Route: RouteVersion, Comparisons: rows, IsComparison: len(rows) > 0}
}

func NewHybridResult(meta []VersionRecord, docs []DocumentMatch) Result {
	return Result{
		Route: RouteVersionHybrid,
		Hybrid: &HybridResult{
			VersionMetadata: meta,
			Documents:       docs,
			TotalMatches:    len(docs),
		},
	}
}

func DocumentSearchResult(docs []DocumentMatch) Result {
	return Result{Route: RouteDocumentSearch, Documents: docs}
}

// Count is the result count used by the summarizer. For the hybrid route
// only document matches are counted.
func (r Result) Count() int {
	switch r.Route {
	case RouteRelational:
		return len(r.Rows)
	case RouteVersion:
		if r.IsComparison {
			return len(r.Comparisons)
		}
		return len(r.Versions)
	case RouteVersionHybrid:
		if r.Hybrid == nil {
			return 0
		}
		return r.Hybrid.TotalMatches
	case RouteDocumentSearch:
		return len(r.Documents)
	default:
		return 0
	}
}
