package executor

import (
	"context"
	"sort"
	"strconv"

	"hcp-chatbot-be/pkg/rag/search"
	"hcp-chatbot-be/pkg/rag/state"
)

// Hybrid combines version metadata with the chunks of the documents linked
// to that version.
func (e *Executor) Hybrid(ctx context.Context, s state.AgentState) state.AgentState {
	return e.run("hybrid", s, func() (state.Result, error) {
		d := s.Decision
		if !d.HasVersion() {
			return state.Result{}, state.Errorf(state.ErrMissingPrerequisite, "version number required for hybrid search")
		}
		if e.versions == nil {
			return state.Result{}, state.Errorf(state.ErrStrategyExecution, "version store unavailable")
		}

		vctx, cancel := withTimeout(ctx, e.timeouts.SQL)
		meta, err := e.versions.FindByNumber(vctx, d.VersionNumber, hybridMetaLimit)
		cancel()
		if err != nil {
			return state.Result{}, state.Errorf(state.ErrStrategyExecution, "fetch version: %v", err)
		}
		if len(meta) == 0 {
			return state.Result{}, versionNotFound(d.VersionNumber)
		}

		docIDs := linkedDocIDs(meta)
		if len(docIDs) == 0 {
			e.logger.Info(logModule, "Version has no linked documents, skipping vector search", map[string]interface{}{
				"version": d.VersionNumber,
			})
			return state.NewHybridResult(meta, nil), nil
		}

		vec, err := e.embed(ctx, s.Query)
		if err != nil {
			return state.Result{}, err
		}

		filter := &search.Filter{DocIDs: docIDs}
		if d.HasUploaderFilter || d.UploaderName != "" {
			filter.Uploader = d.UploaderName
		}
		matches, err := e.searchVectors(ctx, vec, hybridTopK, filter)
		if err != nil {
			return state.Result{}, err
		}

		return state.NewHybridResult(meta, GroupByDocument(matches, true)), nil
	})
}

// DocumentSearch ranks documents by the mean similarity of their chunks.
func (e *Executor) DocumentSearch(ctx context.Context, s state.AgentState) state.AgentState {
	return e.run("document_search", s, func() (state.Result, error) {
		vec, err := e.embed(ctx, s.Query)
		if err != nil {
			return state.Result{}, err
		}

		var filter *search.Filter
		if s.Decision.UploaderName != "" {
			filter = &search.Filter{Uploader: s.Decision.UploaderName}
		}
		matches, err := e.searchVectors(ctx, vec, documentTopK, filter)
		if err != nil {
			return state.Result{}, err
		}

		docs := GroupByDocument(matches, false)
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].AvgSimilarity > docs[j].AvgSimilarity
		})
		if len(docs) > documentLimit {
			docs = docs[:documentLimit]
		}
		return state.DocumentSearchResult(docs), nil
	})
}

func linkedDocIDs(meta []state.VersionRecord) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range meta {
		if m.DocID == "" {
			continue
		}
		if _, ok := seen[m.DocID]; ok {
			continue
		}
		seen[m.DocID] = struct{}{}
		ids = append(ids, m.DocID)
	}
	return ids
}

// GroupByDocument groups matches by document id in first-seen order and
// computes each document's mean chunk similarity. Matches without a
// document id are dropped.
func GroupByDocument(matches []search.Match, dedupe bool) []state.DocumentMatch {
	index := make(map[string]int)
	seenText := make(map[string]map[string]struct{})
	var docs []state.DocumentMatch

	for _, m := range matches {
		md := m.Metadata
		id := md[search.KeyDocID]
		if id == "" {
			continue
		}

		i, ok := index[id]
		if !ok {
			i = len(docs)
			index[id] = i
			seenText[id] = make(map[string]struct{})
			docs = append(docs, state.DocumentMatch{
				DocID:             id,
				Filename:          md[search.KeyFilename],
				Uploader:          md[search.KeyUploaderName],
				TableName:         md[search.KeyTableName],
				Action:            md[search.KeyAction],
				HCPName:           md[search.KeyHCPName],
				HCPEmail:          md[search.KeyHCPEmail],
				Timestamp:         md[search.KeyTimestamp],
				ChangeDescription: md[search.KeyChangeDescription],
			})
		}

		text := md[search.KeyChunkText]
		if dedupe {
			if _, dup := seenText[id][text]; dup {
				continue
			}
			seenText[id][text] = struct{}{}
		}

		chunkIndex, _ := strconv.Atoi(md[search.KeyChunkIndex])
		docs[i].Chunks = append(docs[i].Chunks, state.ScoredChunk{
			Text:       text,
			Similarity: m.Score,
			ChunkIndex: chunkIndex,
		})
	}

	for i := range docs {
		var sum float64
		for _, c := range docs[i].Chunks {
			sum += c.Similarity
		}
		if n := len(docs[i].Chunks); n > 0 {
			docs[i].AvgSimilarity = sum / float64(n)
		}
	}
	return docs
}
