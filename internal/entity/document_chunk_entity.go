package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id                uuid.UUID
	DocId             string
	ChunkIndex        int
	ChunkText         string
	Filename          string
	UploaderName      string
	TableName         string
	Action            string
	HcpName           string
	HcpEmail          string
	ChangeDescription string
	UploadedAt        *time.Time
	Embedding         []float32
	CreatedAt         time.Time
}
