package service

import (
	"context"
	"encoding/json"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/internal/repository/unitofwork"
	"hcp-chatbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const consumerLogModule = "TURN_CONSUMER"

// EventForwarder relays events outside the process.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// Subscriber is the subscribing half of the in-process bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService persists every finished turn and forwards it when a
// forwarder is given. forwarder may be nil.
func NewConsumerService(
	subscriber Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TurnCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerLogModule, "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads never succeed on retry
		return
	}

	if cs.uowFactory != nil {
		if err := cs.persist(ctx, payload); err != nil {
			cs.logger.Error(consumerLogModule, "Failed to persist turn log", map[string]interface{}{
				"turn_id": payload.Event.TurnID,
				"error":   err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, payload.Event); err != nil {
			cs.logger.Warn(consumerLogModule, "Failed to forward turn event", map[string]interface{}{
				"turn_id": payload.Event.TurnID,
				"error":   err.Error(),
			})
		}
	}

	msg.Ack()
}

func (cs *consumerService) persist(ctx context.Context, payload dto.TurnCompletedMessage) error {
	id, err := uuid.Parse(payload.Event.TurnID)
	if err != nil {
		id = uuid.New()
	}
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	return uow.TurnLogRepository().Create(ctx, &entity.ChatTurnLog{
		Id:          id,
		SessionId:   payload.Event.SessionID,
		Query:       payload.Event.Query,
		Decision:    payload.Decision,
		ResultCount: payload.Event.ResultCount,
		Error:       payload.Event.Error,
		Response:    payload.Event.Response,
		CreatedAt:   payload.Event.OccurredAt,
	})
}
