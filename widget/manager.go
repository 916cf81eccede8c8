package widget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trivia-finder/utils"
)

// ManagerConfig bounds discovery retries and startup fan-out. Discovery and
// binding always run on the caller's goroutine.
type ManagerConfig struct {
	DiscoveryMaxAttempts int
	DiscoveryInterval    time.Duration
	MaxConcurrency       int
	RateLimitMs          int
}

// Manager discovers mounts in a document, binds one Instance to each, and
// starts them once the mapping provider is ready.
type Manager struct {
	registry *Registry
	doc      Document
	host     Host
	provider MapProvider
	loader   DatasetLoader
	settings Settings
	cfg      ManagerConfig
	logger   *utils.Logger

	retry     *utils.RetryConfig
	started   *utils.KeySet
	exhausted bool
}

// NewManager returns a Manager. A nil registry gets a fresh one.
func NewManager(registry *Registry, doc Document, host Host, provider MapProvider,
	loader DatasetLoader, settings Settings, cfg ManagerConfig, logger *utils.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Manager{
		registry: registry,
		doc:      doc,
		host:     host,
		provider: provider,
		loader:   loader,
		settings: settings,
		cfg:      cfg,
		logger:   logger,
		retry:    utils.Fixed(cfg.DiscoveryMaxAttempts, cfg.DiscoveryInterval, logger),
		started:  utils.NewKeySet(),
	}
}

// Registry exposes the manager's registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Instances returns every bound instance.
func (m *Manager) Instances() []*Instance { return m.registry.Instances() }

// Exhausted reports whether discovery retries ran out without finding a mount.
func (m *Manager) Exhausted() bool { return m.exhausted }

// SetSleep replaces the wait between discovery retries.
func (m *Manager) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	m.retry.Sleep = fn
}

// Discover binds every mount not seen before and returns the new instances.
// Mounts already bound are skipped, so repeated calls are safe.
func (m *Manager) Discover() ([]*Instance, error) {
	mounts, err := m.doc.Mounts()
	if err != nil {
		return nil, fmt.Errorf("widget: scan document: %w", err)
	}

	var added []*Instance
	for _, mp := range mounts {
		if !m.registry.Claim(mp.Key) {
			continue
		}
		views, err := m.host.Bind(mp)
		if err != nil {
			m.logger.Warn("[manager] Cannot bind mount %s: %v", mp.Key, err)
			continue
		}
		in := NewInstance(mp, views, m.loader, m.settings, m.logger)
		m.registry.Add(in)
		added = append(added, in)
		m.logger.Info("[manager] Instance discovered: %s", mp.Key)
	}
	if len(added) > 0 {
		m.logger.Debug("[manager] Bound mounts: %v", m.registry.BoundKeys())
	}
	return added, nil
}

// Boot runs the initial discovery. If the provider is already loaded the
// ready signal is taken as given and queued instances start immediately.
func (m *Manager) Boot(ctx context.Context) error {
	m.logger.Debug("[manager] Boot")
	if _, err := m.Discover(); err != nil {
		return err
	}
	if m.provider.Loaded() {
		m.registry.MarkReady()
		m.startPending(ctx)
	}
	return nil
}

// ProviderReady is the entry point the mapping provider calls once its
// runtime has loaded. Mounts discovered earlier start now; if there are none
// yet, discovery is retried on a fixed interval up to the configured cap.
func (m *Manager) ProviderReady(ctx context.Context) error {
	if !m.registry.MarkReady() {
		m.logger.Debug("[manager] Provider ready signalled again")
	} else {
		m.logger.Info("[manager] Mapping provider ready")
	}

	if _, err := m.Discover(); err != nil {
		return err
	}
	m.startPending(ctx)

	if m.registry.Len() > 0 {
		return nil
	}
	return m.retryDiscovery(ctx)
}

func (m *Manager) retryDiscovery(ctx context.Context) error {
	err := m.retry.Do(ctx, "discover-mounts", func(attempt int) error {
		if _, err := m.Discover(); err != nil {
			return err
		}
		if m.registry.Len() == 0 {
			return ErrDiscoveryExhausted
		}
		m.logger.Info("[manager] Found mounts on retry #%d", attempt)
		return nil
	})

	if errors.Is(err, utils.ErrRetryExhausted) {
		m.exhausted = true
		m.logger.Debug("[manager] No mounts after %d attempts, giving up", m.cfg.DiscoveryMaxAttempts)
		return nil
	}
	if err != nil {
		return err
	}

	m.startPending(ctx)
	return nil
}

// startPending initialises every bound instance that has not been started.
// With MaxConcurrency 1 (the configured default) startups run one after
// another in discovery order. Higher values overlap them; instances share no
// state, but the MapProvider must then be safe for concurrent NewMap calls.
func (m *Manager) startPending(ctx context.Context) {
	if !m.registry.Ready() {
		return
	}

	pool := utils.NewWorkerPool(m.cfg.MaxConcurrency, m.cfg.RateLimitMs)
	for _, in := range m.registry.Instances() {
		if !m.started.Add(in.ID()) {
			continue
		}
		if err := pool.Submit(ctx, func(ctx context.Context) { m.start(ctx, in) }); err != nil {
			m.logger.Warn("[manager] Startup of %s abandoned: %v", in.Mount().Key, err)
			break
		}
	}
	pool.Wait()
	if n := pool.Skipped(); n > 0 {
		m.logger.Warn("[manager] %d instance startups skipped", n)
	}
}

func (m *Manager) start(ctx context.Context, in *Instance) {
	if err := in.InitSpatialView(m.provider); err != nil {
		return
	}
	if err := in.Load(ctx); err != nil {
		m.logger.Warn("[manager] %s did not load: %v", in.Mount().Key, err)
	}
}

// Close disposes every instance's markers.
func (m *Manager) Close() {
	for _, in := range m.registry.Instances() {
		in.Close()
	}
}
