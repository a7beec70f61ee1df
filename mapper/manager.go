package mapper

import (
	"iter"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/antonsamarsky/emitmapper-tools/config"
	"github.com/antonsamarsky/emitmapper-tools/internal/coerce"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/options"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

// coercionBinder is implemented by configurators that convert values themselves.
// GetMapper hands them the manager's coercion service before building.
type coercionBinder interface {
	WithCoercion(svc *coerce.Service) mapping.Configurator
}

type mapperKey struct {
	src, dst reflect.Type
	cfg      string
}

// Manager builds and caches mappers per (source type, destination type,
// configuration name). It is safe for concurrent use.
type Manager struct {
	opts     options.Options
	logger   *zap.Logger
	coercion *coerce.Service

	mu      sync.Mutex // serialises builds
	mappers sync.Map   // mapperKey -> *Mapper
}

// NewManager creates an isolated manager with its own cache and coercion service.
func NewManager(opts ...options.Option) *Manager {
	o := options.New(opts...)

	return &Manager{
		opts:     o,
		logger:   o.Logger,
		coercion: coerce.New(o),
	}
}

var (
	defaultManagerOnce sync.Once
	defaultManager     *Manager
)

// DefaultManager returns the process-wide manager.
func DefaultManager() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})

	return defaultManager
}

// Coercion returns the coercion service used by the manager's mappers.
func (mgr *Manager) Coercion() *coerce.Service {
	return mgr.coercion
}

// GetMapper returns the mapper for src → dst under cfg, building it on first use.
// A nil cfg selects config.Default. Configurators with a WithCoercion method
// are bound to the manager's coercion service. Configuration errors are returned and
// nothing is cached for the failed build.
func (mgr *Manager) GetMapper(src, dst reflect.Type, cfg mapping.Configurator) (*Mapper, error) {
	if src == nil || dst == nil {
		return nil, errors.Wrap(ErrTypeMismatch, "mapper types must not be nil")
	}

	if cfg == nil {
		cfg = config.Default()
	}

	if b, ok := cfg.(coercionBinder); ok {
		cfg = b.WithCoercion(mgr.coercion)
	}

	key := mapperKey{src: src, dst: dst, cfg: cfg.Name()}
	if m, ok := mgr.cached(key); ok {
		return m, nil
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if m, ok := mgr.cached(key); ok {
		return m, nil
	}

	mgr.logger.Debug("building mapper",
		zap.String("pair", common.PairName(src, dst)), zap.String("config", key.cfg))

	b := newBuilder(mgr, cfg)

	m, err := b.mapper(src, dst)
	if err != nil {
		mgr.logger.Debug("mapper build failed",
			zap.String("pair", common.PairName(src, dst)), zap.String("config", key.cfg), zap.Error(err))

		return nil, errors.Wrapf(err, "build mapper %s", common.PairName(src, dst))
	}

	for k, built := range b.pending {
		mgr.mappers.Store(k, built)
	}

	mgr.logger.Debug("mapper built",
		zap.Stringer("mapper", m), zap.String("config", key.cfg), zap.Int("compiled", len(b.pending)))

	return m, nil
}

func (mgr *Manager) cached(key mapperKey) (*Mapper, bool) {
	m, ok := mgr.mappers.Load(key)
	if !ok {
		return nil, false
	}

	return m.(*Mapper), true
}

// MapCollection lazily maps every element of seq. Results keep the position of
// their input; iterating twice maps twice. The mapper is resolved when iteration
// starts; a configuration error is yielded once as the only element.
func (mgr *Manager) MapCollection(src, dst reflect.Type, cfg mapping.Configurator, seq iter.Seq[any]) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		m, err := mgr.GetMapper(src, dst, cfg)
		if err != nil {
			yield(nil, err)
			return
		}

		for item := range seq {
			if !yield(m.Map(item)) {
				return
			}
		}
	}
}

// fit makes v assignable to t, converting it when needed. A nil v yields the
// zero value of t.
func (mgr *Manager) fit(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	if v.Type().AssignableTo(t) {
		return v, true
	}

	if utils.IsNil(v) {
		return reflect.Zero(t), true
	}

	out, ok := mgr.coercion.Convert(v, t)
	if !ok || !out.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}

	return out, true
}
