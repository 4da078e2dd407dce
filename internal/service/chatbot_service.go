package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/internal/repository/specification"
	"hcp-chatbot-be/internal/repository/unitofwork"
	"hcp-chatbot-be/internal/websocket"
	"hcp-chatbot-be/pkg/events"
	"hcp-chatbot-be/pkg/rag/history"
	"hcp-chatbot-be/pkg/rag/state"

	"github.com/google/uuid"
)

const (
	chatLogModule       = "CHATBOT"
	defaultTurnLogLimit = 20
)

// ErrEmptyQuestion is returned before any pipeline stage runs when the
// question is blank after trimming.
var ErrEmptyQuestion = errors.New("question is required")

// TurnRunner runs one turn of the routing pipeline.
type TurnRunner interface {
	Run(ctx context.Context, query string, turns []state.Turn) (state.AgentState, error)
}

// SessionNotifier pushes frames to the sockets attached to a session.
type SessionNotifier interface {
	Publish(ctx context.Context, sessionID string, frame websocket.Frame)
	SessionCount() int
}

type IChatbotService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
	Health(ctx context.Context) (*dto.HealthResponse, error)
	History(ctx context.Context, sessionID string) (*dto.HistoryResponse, error)
	TurnLogs(ctx context.Context, sessionID string, limit int) ([]*dto.TurnLogResponse, error)
}

type ChatbotOptions struct {
	HistoryCap int
	DisplayCap int
}

type chatbotService struct {
	runner      TurnRunner
	historyRepo contract.HistoryRepository
	uowFactory  unitofwork.RepositoryFactory
	publisher   IPublisherService
	notifier    SessionNotifier
	logger      logger.ILogger
	opts        ChatbotOptions
	now         func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewChatbotService(
	runner TurnRunner,
	historyRepo contract.HistoryRepository,
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	notifier SessionNotifier,
	log logger.ILogger,
	opts ChatbotOptions,
) IChatbotService {
	if opts.HistoryCap <= 0 {
		opts.HistoryCap = history.DefaultCap
	}
	if opts.DisplayCap < opts.HistoryCap {
		opts.DisplayCap = opts.HistoryCap
	}
	return &chatbotService{
		runner:      runner,
		historyRepo: historyRepo,
		uowFactory:  uowFactory,
		publisher:   publisher,
		notifier:    notifier,
		logger:      log,
		opts:        opts,
		now:         time.Now,
		locks:       make(map[string]*sessionLock),
	}
}

// lock serializes turns of one session so concurrent requests cannot lose
// each other's history append.
func (s *chatbotService) lock(sessionID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}

func normalizeSession(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.DefaultSessionID
	}
	return id
}

func (s *chatbotService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	sessionID := normalizeSession(req.SessionID)
	unlock := s.lock(sessionID)
	defer unlock()

	stored, err := s.historyRepo.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn(chatLogModule, "History load failed, starting empty", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		stored = nil
	}

	st, err := s.runner.Run(ctx, question, history.Trim(stored, s.opts.HistoryCap))
	if err != nil {
		return nil, fmt.Errorf("run turn: %w", err)
	}

	if n := len(st.History); n > 0 {
		display := history.Append(stored, st.History[n-1], s.opts.DisplayCap)
		if err := s.historyRepo.Save(ctx, sessionID, display); err != nil {
			s.logger.Warn(chatLogModule, "History save failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	res := toQueryResponse(sessionID, st)
	s.publishTurn(ctx, sessionID, st)
	if s.notifier != nil {
		s.notifier.Publish(ctx, sessionID, websocket.Frame{Type: websocket.FrameAnswer, Data: res})
	}
	return res, nil
}

func toQueryResponse(sessionID string, st state.AgentState) *dto.QueryResponse {
	res := &dto.QueryResponse{
		Answer:        st.Response,
		QueryType:     st.Decision.Route.String(),
		RowCount:      st.ResultCount(),
		RoutingReason: st.Decision.Reasoning,
		Confidence:    st.Decision.Confidence,
		VersionRange:  st.Decision.VersionRange,
		SessionID:     sessionID,
		Error:         st.Error,
	}
	if st.Decision.HasVersion() {
		v := st.Decision.VersionNumber
		res.VersionNumber = &v
	}
	return res
}

func (s *chatbotService) publishTurn(ctx context.Context, sessionID string, st state.AgentState) {
	if s.publisher == nil {
		return
	}
	msg := dto.TurnCompletedMessage{
		Event: events.TurnCompleted{
			TurnID:        uuid.NewString(),
			SessionID:     sessionID,
			Query:         st.Query,
			Route:         st.Decision.Route.String(),
			Reasoning:     st.Decision.Reasoning,
			Confidence:    st.Decision.Confidence,
			VersionNumber: st.Decision.VersionNumber,
			ResultCount:   st.ResultCount(),
			Error:         st.Error,
			Response:      st.Response,
			OccurredAt:    s.now(),
		},
		Decision: st.Decision,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error(chatLogModule, "Turn event marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn(chatLogModule, "Turn event publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *chatbotService) ClearSession(ctx context.Context, sessionID string) error {
	sessionID = normalizeSession(sessionID)
	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.historyRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session %s: %w", sessionID, err)
	}
	s.logger.Info(chatLogModule, "Session cleared", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *chatbotService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	sessions, err := s.historyRepo.CountSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	sockets := 0
	if s.notifier != nil {
		sockets = s.notifier.SessionCount()
	}
	return &dto.HealthResponse{
		Status:         "healthy",
		ActiveSessions: sessions,
		ActiveSockets:  sockets,
		Timestamp:      s.now(),
	}, nil
}

func (s *chatbotService) History(ctx context.Context, sessionID string) (*dto.HistoryResponse, error) {
	sessionID = normalizeSession(sessionID)
	turns, err := s.historyRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", sessionID, err)
	}
	out := make([]dto.HistoryTurnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, dto.HistoryTurnResponse{
			Query:     t.Query,
			Response:  t.Response,
			Route:     t.Route.String(),
			Timestamp: t.Timestamp,
		})
	}
	return &dto.HistoryResponse{SessionID: sessionID, Turns: out}, nil
}

func (s *chatbotService) TurnLogs(ctx context.Context, sessionID string, limit int) ([]*dto.TurnLogResponse, error) {
	if s.uowFactory == nil {
		return []*dto.TurnLogResponse{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultTurnLogLimit
	case limit > specification.MaxPageSize:
		limit = specification.MaxPageSize
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.TurnLogRepository().FindAll(ctx,
		specification.BySessionID{SessionID: normalizeSession(sessionID)},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("load turn logs: %w", err)
	}

	out := make([]*dto.TurnLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, &dto.TurnLogResponse{
			Id:         l.Id.String(),
			SessionID:  l.SessionId,
			Query:      l.Query,
			Route:      l.Decision.Route.String(),
			Confidence: l.Decision.Confidence,
			RowCount:   l.ResultCount,
			Error:      l.Error,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
