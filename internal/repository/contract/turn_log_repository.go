package contract

import (
	"context"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/repository/specification"
)

type TurnLogRepository interface {
	Create(ctx context.Context, log *entity.ChatTurnLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurnLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
