package mapper

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/antonsamarsky/emitmapper-tools/config"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/options"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

type wildcard struct{}

// Any matches every type when used as the source or destination of
// RegisterConfiguration.
var Any = reflect.TypeFor[wildcard]()

type pairKey struct {
	src, dst reflect.Type
}

// Core looks up the configuration of a type pair and maps values through a
// Manager. The zero value is not usable; create one with New.
type Core struct {
	mgr      *Manager
	fallback mapping.Configurator

	mu      sync.Mutex // guards registrations
	configs sync.Map   // pairKey -> mapping.Configurator
}

// New creates a core with its own manager. Pairs without a registration use
// config.Default.
func New(opts ...options.Option) *Core {
	return &Core{
		mgr:      NewManager(opts...),
		fallback: config.Default(),
	}
}

var (
	defaultCoreOnce sync.Once
	defaultCore     *Core
)

// DefaultCore returns the process-wide core, backed by DefaultManager.
func DefaultCore() *Core {
	defaultCoreOnce.Do(func() {
		defaultCore = &Core{
			mgr:      DefaultManager(),
			fallback: config.Default(),
		}
	})

	return defaultCore
}

// Manager returns the manager that caches the core's mappers.
func (c *Core) Manager() *Manager {
	return c.mgr
}

// RegisterConfiguration binds cfg to the src → dst pair. Either type may be Any.
// Registering a configuration with the same name again is a no-op; a different
// one returns ErrConflictingRegistration.
func (c *Core) RegisterConfiguration(src, dst reflect.Type, cfg mapping.Configurator) error {
	if src == nil || dst == nil || cfg == nil {
		return ErrTypeMismatch
	}

	key := pairKey{src, dst}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.configs.Load(key); ok {
		if old.(mapping.Configurator).Name() == cfg.Name() {
			return nil
		}

		return ErrConflictingRegistration
	}

	c.configs.Store(key, cfg)
	c.mgr.logger.Debug("configuration registered",
		zap.String("pair", common.PairName(src, dst)), zap.String("config", cfg.Name()))

	return nil
}

// ConfigurationFor returns the configuration registered for the pair. Exact
// registrations win over a wildcard destination, which wins over a wildcard
// source. Pointer types fall back to the registrations of their base types.
func (c *Core) ConfigurationFor(src, dst reflect.Type) mapping.Configurator {
	_, srcBase := utils.PtrDepthAndBase(src)
	_, dstBase := utils.PtrDepthAndBase(dst)

	candidates := []pairKey{
		{src, dst},
		{srcBase, dstBase},
		{src, Any},
		{srcBase, Any},
		{Any, dst},
		{Any, dstBase},
	}

	for _, key := range candidates {
		if cfg, ok := c.configs.Load(key); ok {
			return cfg.(mapping.Configurator)
		}
	}

	return c.fallback
}

// GetMapper returns the mapper for the pair under its registered configuration.
func (c *Core) GetMapper(src, dst reflect.Type) (*Mapper, error) {
	return c.mgr.GetMapper(src, dst, c.ConfigurationFor(src, dst))
}

func (c *Core) mapper(src, dst reflect.Type, cfg mapping.Configurator) (*Mapper, error) {
	if cfg == nil {
		return c.GetMapper(src, dst)
	}

	return c.mgr.GetMapper(src, dst, cfg)
}
