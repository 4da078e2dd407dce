package mapper

import (
	"encoding/json"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/pkg/rag/state"

	"gorm.io/datatypes"
)

type ChatTurnLogMapper struct{}

func NewChatTurnLogMapper() *ChatTurnLogMapper {
	return &ChatTurnLogMapper{}
}

func (m *ChatTurnLogMapper) ToModel(e *entity.ChatTurnLog) (*model.ChatTurnLog, error) {
	decision, err := json.Marshal(e.Decision)
	if err != nil {
		return nil, err
	}

	var errText *string
	if e.Error != "" {
		s := e.Error
		errText = &s
	}

	return &model.ChatTurnLog{
		Id:          e.Id,
		SessionId:   e.SessionId,
		Query:       e.Query,
		Route:       e.Decision.Route.String(),
		Reasoning:   e.Decision.Reasoning,
		Confidence:  e.Decision.Confidence,
		Decision:    datatypes.JSON(decision),
		ResultCount: e.ResultCount,
		Error:       errText,
		Response:    e.Response,
		CreatedAt:   e.CreatedAt,
	}, nil
}

func (m *ChatTurnLogMapper) ToEntity(l *model.ChatTurnLog) *entity.ChatTurnLog {
	if l == nil {
		return nil
	}
	var d state.Decision
	if len(l.Decision) > 0 {
		_ = json.Unmarshal(l.Decision, &d)
	}
	// The indexed columns win over the JSON snapshot.
	d.Route = state.Route(l.Route)
	d.Reasoning = l.Reasoning
	d.Confidence = l.Confidence

	return &entity.ChatTurnLog{
		Id:          l.Id,
		SessionId:   l.SessionId,
		Query:       l.Query,
		Decision:    d,
		ResultCount: l.ResultCount,
		Error:       deref(l.Error),
		Response:    l.Response,
		CreatedAt:   l.CreatedAt,
	}
}
