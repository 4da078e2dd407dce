package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one embedded chunk of an uploaded supporting document.
type DocumentChunk struct {
	Id                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocId             string          `gorm:"type:varchar(100);not null;index"`
	ChunkIndex        int             `gorm:"default:0"`
	ChunkText         string          `gorm:"type:text;not null"`
	Filename          string          `gorm:"type:varchar(255)"`
	UploaderName      string          `gorm:"type:varchar(100);index"`
	SourceTable       string          `gorm:"column:table_name;type:varchar(100)"`
	Action            string          `gorm:"type:varchar(50)"`
	HcpName           string          `gorm:"type:varchar(255)"`
	HcpEmail          string          `gorm:"type:varchar(255)"`
	ChangeDescription string          `gorm:"type:text"`
	UploadedAt        *time.Time      `gorm:"column:uploaded_at"`
	Embedding         pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 both use 768 dimensions
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

// ScoredDocumentChunk carries the cosine similarity computed by the query.
type ScoredDocumentChunk struct {
	DocumentChunk
	Similarity float64 `gorm:"column:similarity"`
}
