package repository

import (
	"context"
	"sync"

	model "github.com/flpflJ/crypto-chat/internal/chat/model"
)

// MemoryStore keeps conversation logs in process memory. Locking is per
// conversation so appends to different logs never contend; the outer lock
// only guards the key -> log map.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string]*convLog
}

type convLog struct {
	mu   sync.RWMutex
	msgs []model.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string]*convLog)}
}

func (s *MemoryStore) log(key string) *convLog {
	s.mu.RLock()
	l, ok := s.logs[key]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.logs[key]; ok {
		return l
	}
	l = &convLog{}
	s.logs[key] = l
	return l
}

func (s *MemoryStore) Append(_ context.Context, key string, msg *model.Message) error {
	l := s.log(key)

	l.mu.Lock()
	defer l.mu.Unlock()

	msg.ConversationKey = key
	msg.Seq = int64(len(l.msgs) + 1)
	l.msgs = append(l.msgs, *msg)
	return nil
}

func (s *MemoryStore) History(_ context.Context, key string) ([]model.Message, error) {
	s.mu.RLock()
	l, ok := s.logs[key]
	s.mu.RUnlock()
	if !ok {
		return []model.Message{}, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Message, len(l.msgs))
	copy(out, l.msgs)
	return out, nil
}
