package jobs

import (
	"context"
	"log"
	"time"
)

// Dependency status values
const (
	StatusOK       = "ok"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Pinger is satisfied by the database and Redis clients
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStats reports the open connections of the database pool
type PoolStats interface {
	OpenConnections() int
}

// PoolGauge receives the connection count on every check
type PoolGauge interface {
	UpdateDBConnections(count float64)
}

// Health is the result of one dependency check
type Health struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	Redis           string `json:"redis"`
	OpenConnections int    `json:"open_connections,omitempty"`
	ActiveWizards   int    `json:"active_wizards"`
}

// Monitor checks the optional backing services. Nil dependencies report "disabled".
type Monitor struct {
	db      Pinger
	pool    PoolStats
	redis   Pinger
	wizards func() int
	gauge   PoolGauge
	logger  *log.Logger
}

// MonitorConfig wires the dependencies a Monitor checks
type MonitorConfig struct {
	DB      Pinger
	Pool    PoolStats
	Redis   Pinger
	Wizards func() int
	Gauge   PoolGauge
	Logger  *log.Logger
}

// NewMonitor creates a new dependency monitor
func NewMonitor(cfg MonitorConfig) *Monitor {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Monitor{
		db:      cfg.DB,
		pool:    cfg.Pool,
		redis:   cfg.Redis,
		wizards: cfg.Wizards,
		gauge:   cfg.Gauge,
		logger:  cfg.Logger,
	}
}

// Check pings every configured dependency with a short timeout
func (m *Monitor) Check(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	h := Health{
		Status:   StatusOK,
		Database: m.ping(ctx, "database", m.db),
		Redis:    m.ping(ctx, "redis", m.redis),
	}
	if h.Database == StatusDown || h.Redis == StatusDown {
		h.Status = "degraded"
	}

	if m.pool != nil {
		h.OpenConnections = m.pool.OpenConnections()
		if m.gauge != nil {
			m.gauge.UpdateDBConnections(float64(h.OpenConnections))
		}
	}
	if m.wizards != nil {
		h.ActiveWizards = m.wizards()
	}

	return h
}

func (m *Monitor) ping(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return StatusDisabled
	}
	if err := p.Ping(ctx); err != nil {
		m.logger.Printf("⚠️ %s health check failed: %v", name, err)
		return StatusDown
	}
	return StatusOK
}
