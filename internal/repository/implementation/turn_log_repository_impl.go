package implementation

import (
	"context"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/mapper"
	"hcp-chatbot-be/internal/model"
	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TurnLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTurnLogMapper
}

func NewTurnLogRepository(db *gorm.DB) contract.TurnLogRepository {
	return &TurnLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTurnLogMapper(),
	}
}

func (r *TurnLogRepositoryImpl) Create(ctx context.Context, log *entity.ChatTurnLog) error {
	m, err := r.mapper.ToModel(log)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *TurnLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurnLog, error) {
	var models []*model.ChatTurnLog
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatTurnLog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TurnLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatTurnLog{}).Count(&count).Error
	return count, err
}
