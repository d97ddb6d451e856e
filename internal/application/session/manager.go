package session

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/application/port"
	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// Manager tracks active editing sessions in memory. The draft is owned
// exclusively by its session; the manager only hands out references.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	defaultCompany invoice.CompanyProfile
	store          port.SnapshotRepository
	exports        port.ExportQueue
	logger         *zap.Logger
}

// NewManager creates a session manager. New drafts are pre-filled with the
// configured company profile, matching the form's pre-seeded step 1.
func NewManager(defaultCompany invoice.CompanyProfile, store port.SnapshotRepository, exports port.ExportQueue, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:       make(map[string]*Session),
		defaultCompany: defaultCompany,
		store:          store,
		exports:        exports,
		logger:         logger,
	}
}

// Create starts a new editing session with a fresh draft
func (m *Manager) Create() *Session {
	id := ulid.Make().String()
	draft := invoice.NewDraft(m.defaultCompany, time.Now().Format(DateFormat))
	s := newSession(id, draft, m.store, m.exports, m.logger)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("Editing session created",
		zap.String("session_id", id),
		zap.Int("invoice_number", draft.Meta.Number))
	return s
}

// Get returns the session with the given id
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete discards a session
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
