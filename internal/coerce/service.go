package coerce

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/options"
	"github.com/antonsamarsky/emitmapper-tools/primitive"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

type pairKey struct {
	src, dst reflect.Type
}

// step converts a value of a known source type; ok=false means "no value".
type step func(v reflect.Value) (reflect.Value, bool)

// Service converts values between types. It is safe for concurrent use.
type Service struct {
	categories primitive.CategoryEnum
	logger     *zap.Logger

	mu         sync.Mutex
	converters map[reflect.Type][]TypeConverter

	plans  sync.Map // pairKey -> step, nil step when nothing applies
	failed sync.Map // pairKey -> struct{}, pairs the primitive step can never convert
}

// New creates an isolated coercion service with the built-in converters registered.
func New(opts options.Options) *Service {
	s := &Service{
		categories: opts.Categories,
		logger:     opts.Logger,
		converters: map[reflect.Type][]TypeConverter{},
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.Register(UUIDBytes{})

	return s
}

var (
	defaultOnce    sync.Once
	defaultService *Service
)

// Default returns the process-wide service built from options.Defaults.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = New(options.Defaults())
	})

	return defaultService
}

// Register adds a converter. Converters registered later for the same type are
// consulted first.
func (s *Service) Register(c TypeConverter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := c.Type()
	s.converters[t] = append([]TypeConverter{c}, s.converters[t]...)
	s.plans.Clear()
}

// Categories returns the primitive conversion categories the service may use.
func (s *Service) Categories() primitive.CategoryEnum {
	return s.categories
}

// ConvertValue is Convert for plain Go values. A nil value yields (nil, false).
func (s *Service) ConvertValue(value any, dst reflect.Type) (any, bool) {
	out, ok := s.Convert(reflect.ValueOf(value), dst)
	if !ok {
		return nil, false
	}

	return out.Interface(), true
}

// Convert converts v to dst. The result has exactly the dst type unless dst is
// an interface, in which case the assignable source value is returned as is.
func (s *Service) Convert(v reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	if v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	if utils.IsNil(v) || dst == nil {
		return reflect.Value{}, false
	}

	src := v.Type()
	if src == dst || src.AssignableTo(dst) {
		return v, true
	}

	key := pairKey{src, dst}
	if out, ok := s.primitive(key, v); ok {
		return out, true
	}

	if plan := s.plan(key); plan != nil {
		return plan(v)
	}

	return reflect.Value{}, false
}

// CanConvert reports whether some step applies to the pair. Value dependent
// conversions (for example text parsing) may still fail at call time.
func (s *Service) CanConvert(src, dst reflect.Type) bool {
	if src == nil || dst == nil {
		return false
	}

	if src == dst || src.AssignableTo(dst) {
		return true
	}

	key := pairKey{src, dst}
	if _, failed := s.failed.Load(key); !failed && s.primitiveAllowed(key) {
		return true
	}

	return s.plan(key) != nil
}

func (s *Service) primitiveAllowed(key pairKey) bool {
	pair := primitive.ConversionPair{From: primitive.FromReflectType(key.src), To: primitive.FromReflectType(key.dst)}

	return pair.From != 0 && pair.To != 0 && primitive.Allowed(pair, s.categories)
}

// governed reports whether the primitive categories own the pair, in which case
// plain reflect conversion must not bypass them. Conversions between types of the
// same reflect kind are lossless and stay available.
func (s *Service) governed(key pairKey) bool {
	return primitive.FromReflectType(key.src) != 0 && primitive.FromReflectType(key.dst) != 0 &&
		key.src.Kind() != key.dst.Kind()
}

func (s *Service) primitive(key pairKey, v reflect.Value) (reflect.Value, bool) {
	if _, failed := s.failed.Load(key); failed || !s.primitiveAllowed(key) {
		return reflect.Value{}, false
	}

	out, err := primitive.Convert(v, key.dst, s.categories)
	if err == nil {
		return out, true
	}

	if errors.Is(err, primitive.ErrNotAllowed) {
		if _, loaded := s.failed.LoadOrStore(key, struct{}{}); !loaded {
			s.logger.Debug("primitive conversion disabled for pair",
				zap.String("pair", common.PairName(key.src, key.dst)), zap.Error(err))
		}
	}

	return reflect.Value{}, false
}

func (s *Service) plan(key pairKey) step {
	if cached, ok := s.plans.Load(key); ok {
		return cached.(step)
	}

	plan := s.resolve(key)
	actual, _ := s.plans.LoadOrStore(key, plan)

	return actual.(step)
}

func (s *Service) lookup(t reflect.Type) []TypeConverter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.converters[t]
}

var (
	stringerType        = reflect.TypeFor[fmt.Stringer]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	anyBoxType          = reflect.TypeFor[interface{ Any() any }]()
)

// resolve picks the conversion step for a pair; the result is cached by plan.
func (s *Service) resolve(key pairKey) step {
	src, dst := key.src, key.dst

	for _, c := range s.lookup(dst) {
		if c.CanConvertFrom(src) {
			return guarded(func(v reflect.Value) (reflect.Value, error) { return c.ConvertFrom(v) })
		}
	}

	for _, c := range s.lookup(src) {
		if c.CanConvertTo(dst) {
			return guarded(func(v reflect.Value) (reflect.Value, error) { return c.ConvertTo(v, dst) })
		}
	}

	switch {
	case src.Implements(anyBoxType):
		return func(v reflect.Value) (reflect.Value, bool) {
			return s.Convert(reflect.ValueOf(v.Interface().(interface{ Any() any }).Any()), dst)
		}

	case src.Kind() == reflect.Ptr:
		return func(v reflect.Value) (reflect.Value, bool) {
			return s.Convert(v.Elem(), dst)
		}

	case dst.Kind() == reflect.Ptr:
		if !s.CanConvert(src, dst.Elem()) {
			return nil
		}

		return func(v reflect.Value) (reflect.Value, bool) {
			inner, ok := s.Convert(v, dst.Elem())
			if !ok {
				return reflect.Value{}, false
			}

			p := reflect.New(dst.Elem())
			p.Elem().Set(inner)

			return p, true
		}

	case dst.Kind() == reflect.String && src.Implements(textMarshalerType):
		return guarded(func(v reflect.Value) (reflect.Value, error) {
			text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(string(text)).Convert(dst), nil
		})

	case src.Kind() == reflect.String && reflect.PointerTo(dst).Implements(textUnmarshalerType):
		return guarded(func(v reflect.Value) (reflect.Value, error) {
			p := reflect.New(dst)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.String())); err != nil {
				return reflect.Value{}, err
			}

			return p.Elem(), nil
		})

	case dst.Kind() == reflect.String && src.Implements(stringerType):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(v.Interface().(fmt.Stringer).String()).Convert(dst), true
		}

	case sameFamily(src, dst) && src.ConvertibleTo(dst) && !s.governed(key):
		return func(v reflect.Value) (reflect.Value, bool) {
			return v.Convert(dst), true
		}
	}

	return nil
}

func guarded(fn func(v reflect.Value) (reflect.Value, error)) step {
	return func(v reflect.Value) (reflect.Value, bool) {
		out, err := fn(v)
		if err != nil || !out.IsValid() {
			return reflect.Value{}, false
		}

		return out, true
	}
}

func sameFamily(a, b reflect.Type) bool {
	fa, fb := family(a.Kind()), family(b.Kind())
	return fa != 0 && fa == fb
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	case reflect.Complex64, reflect.Complex128:
		return 4
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return 10 + int(k)
	default:
		return 0
	}
}
