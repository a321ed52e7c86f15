package signup

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/logger"
)

// OutcomeRecorder receives wizard outcomes. Satisfied by *metrics.Metrics.
type OutcomeRecorder interface {
	RecordSignupOutcome(outcome string)
	SetActiveWizards(count int)
}

// Manager owns the open wizards of this process
type Manager struct {
	wizards    map[string]*Wizard
	mu         sync.RWMutex
	auth       AuthProvider
	watcher    AuthWatcher
	timeout    time.Duration
	sessionTTL time.Duration
	recorder   OutcomeRecorder
	logger     logger.Logger
}

// ManagerConfig configures a Manager
type ManagerConfig struct {
	Auth                AuthProvider
	Watcher             AuthWatcher
	ConfirmationTimeout time.Duration
	SessionTTL          time.Duration
	Recorder            OutcomeRecorder
	Logger              logger.Logger
}

// NewManager creates a wizard manager
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &Manager{
		wizards:    make(map[string]*Wizard),
		auth:       cfg.Auth,
		watcher:    cfg.Watcher,
		timeout:    cfg.ConfirmationTimeout,
		sessionTTL: cfg.SessionTTL,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
	}
}

// Open starts a wizard and returns its id
func (m *Manager) Open(preset Preset) (string, *Wizard) {
	id := uuid.NewString()
	opts := []Option{
		WithConfirmationTimeout(m.timeout),
		WithLogger(m.logger.With("wizard_id", id)),
		WithOnClose(m.recordOutcome),
	}
	if m.watcher != nil {
		opts = append(opts, WithWatcher(m.watcher))
	}
	w := New(m.auth, preset, opts...)

	m.mu.Lock()
	m.wizards[id] = w
	count := len(m.wizards)
	m.mu.Unlock()

	m.setActive(count)
	return id, w
}

// Get returns the wizard with id
func (m *Manager) Get(id string) (*Wizard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wizards[id]
	if !ok {
		return nil, domain.NewNotFoundError("signup wizard")
	}
	return w, nil
}

// Close closes the wizard with id and forgets it
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	w, ok := m.wizards[id]
	delete(m.wizards, id)
	count := len(m.wizards)
	m.mu.Unlock()

	if !ok {
		return domain.NewNotFoundError("signup wizard")
	}
	w.Close()
	m.setActive(count)
	return nil
}

// Sweep forgets wizards idle past the session TTL, closing any still open.
// Closed wizards stay readable until then. It returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	var expired []*Wizard
	removed := 0

	m.mu.Lock()
	for id, w := range m.wizards {
		st := w.State()
		idle := now.Sub(w.LastActive()) > m.sessionTTL
		// a pending confirmation is bounded by its own timer
		if idle && (st.Closed || st.Step != StepAwaitingConfirmation) {
			delete(m.wizards, id)
			removed++
			if !st.Closed {
				expired = append(expired, w)
			}
		}
	}
	count := len(m.wizards)
	m.mu.Unlock()

	for _, w := range expired {
		w.Close()
	}
	m.setActive(count)
	return removed
}

// Count returns the number of tracked wizards
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.wizards)
}

func (m *Manager) recordOutcome(o Outcome) {
	if m.recorder != nil {
		m.recorder.RecordSignupOutcome(string(o))
	}
}

func (m *Manager) setActive(count int) {
	if m.recorder != nil {
		m.recorder.SetActiveWizards(count)
	}
}
