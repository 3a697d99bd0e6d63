package session

import (
	"context"
	"sync"
	"time"
)

// Store persiste sessões por ID.
type Store interface {
	Save(ctx context.Context, sessao *Sessao) error
	Get(ctx context.Context, id string) (*Sessao, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore guarda sessões em memória, com varredura preguiçosa de
// expiradas. Serve a instância única; produção usa o RedisStore.
type MemoryStore struct {
	mu              sync.Mutex
	sessoes         map[string]*Sessao
	ultimaVarredura time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessoes: make(map[string]*Sessao), ultimaVarredura: time.Now()}
}

func (m *MemoryStore) Save(ctx context.Context, sessao *Sessao) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copia := *sessao
	m.sessoes[sessao.ID] = &copia
	m.varrer()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Sessao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessao, ok := m.sessoes[id]
	if !ok {
		return nil, ErrNaoEncontrada
	}
	if sessao.Expirada(time.Now()) {
		delete(m.sessoes, id)
		return nil, ErrNaoEncontrada
	}

	copia := *sessao
	return &copia, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessoes, id)
	return nil
}

// varrer remove expiradas no máximo uma vez por minuto. Chamar com mu.
func (m *MemoryStore) varrer() {
	now := time.Now()
	if now.Sub(m.ultimaVarredura) < time.Minute {
		return
	}
	m.ultimaVarredura = now
	for id, sessao := range m.sessoes {
		if sessao.Expirada(now) {
			delete(m.sessoes, id)
		}
	}
}
