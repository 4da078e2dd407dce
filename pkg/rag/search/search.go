// Package search defines the vector search contract shared by the execution
// strategies and the vector store implementations.
package search

import "context"

// Metadata keys stored with every document chunk.
const (
	KeyDocID             = "doc_id"
	KeyChunkText         = "chunk_text"
	KeyChunkIndex        = "chunk_index"
	KeyFilename          = "filename"
	KeyUploaderName      = "uploader_name"
	KeyTableName         = "table_name"
	KeyAction            = "action"
	KeyHCPName           = "hcp_name"
	KeyHCPEmail          = "hcp_email"
	KeyTimestamp         = "timestamp"
	KeyChangeDescription = "change_description"
)

// Match is one ranked chunk. Score is a similarity in [0,1], higher is closer.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// Filter restricts a query. Empty fields do not filter.
type Filter struct {
	DocIDs   []string
	Uploader string
}

func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.DocIDs) == 0 && f.Uploader == "")
}

type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, topK int, filter *Filter) ([]Match, error)
}
