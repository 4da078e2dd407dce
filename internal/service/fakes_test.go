package service

import (
	"context"
	"sync"

	"hcp-chatbot-be/internal/entity"
	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/internal/repository/specification"
	"hcp-chatbot-be/internal/repository/unitofwork"
	"hcp-chatbot-be/internal/websocket"
	"hcp-chatbot-be/pkg/events"
	"hcp-chatbot-be/pkg/rag/search"
)

type fakeTurnLogs struct {
	mu      sync.Mutex
	created []*entity.ChatTurnLog
	findErr error
	specs   []specification.Specification
}

func (f *fakeTurnLogs) Create(_ context.Context, l *entity.ChatTurnLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, l)
	return nil
}

func (f *fakeTurnLogs) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatTurnLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.specs = specs
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.created, nil
}

func (f *fakeTurnLogs) Count(context.Context, ...specification.Specification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.created)), nil
}

func (f *fakeTurnLogs) snapshot() []*entity.ChatTurnLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.ChatTurnLog, len(f.created))
	copy(out, f.created)
	return out
}

type fakeChunks struct {
	deleted []string
	stored  []*entity.DocumentChunk
	err     error
}

func (f *fakeChunks) Search(context.Context, []float32, int, *search.Filter) ([]search.Match, error) {
	return nil, nil
}

func (f *fakeChunks) CreateBulk(_ context.Context, chunks []*entity.DocumentChunk) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, chunks...)
	return nil
}

func (f *fakeChunks) DeleteByDocId(_ context.Context, docId string) error {
	f.deleted = append(f.deleted, docId)
	return nil
}

type fakeUoW struct {
	turnLogs   *fakeTurnLogs
	chunks     *fakeChunks
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUoW) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeUoW) Commit() error               { u.committed = true; return nil }

func (u *fakeUoW) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *fakeUoW) VersionRepository() contract.VersionRepository             { return nil }
func (u *fakeUoW) DocumentChunkRepository() contract.DocumentChunkRepository { return u.chunks }
func (u *fakeUoW) TurnLogRepository() contract.TurnLogRepository             { return u.turnLogs }

type fakeFactory struct {
	uow *fakeUoW
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: &fakeUoW{turnLogs: &fakeTurnLogs{}, chunks: &fakeChunks{}}}
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeNotifier struct {
	sessions []string
	frames   []websocket.Frame
}

func (n *fakeNotifier) Publish(_ context.Context, sessionID string, frame websocket.Frame) {
	n.sessions = append(n.sessions, sessionID)
	n.frames = append(n.frames, frame)
}

func (n *fakeNotifier) SessionCount() int { return len(n.sessions) }

type fakeForwarder struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeForwarder) Publish(_ context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeForwarder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
