package mapper

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

// Mapper transfers values of one source type to one destination type under one
// configuration. Mappers are created by a Manager and are safe for concurrent use.
type Mapper struct {
	src, dst reflect.Type
	cfg      mapping.Configurator
	mgr      *Manager

	strategy strategy
	root     mapping.RootOperation
	steps    []step  // strategyOperations
	elem     *Mapper // pointee, element or map value
	key      *Mapper // map key
}

// step executes one operation against a source value and an addressable destination.
type step func(src, dst reflect.Value, st *state) error

// state is carried through one top level call.
type state struct {
	user     any
	depth    int
	maxDepth int
}

func (st *state) enter() error {
	st.depth++
	if st.maxDepth > 0 && st.depth > st.maxDepth {
		return errors.Wrapf(ErrMaxDepth, "depth %d", st.depth)
	}

	return nil
}

func (st *state) leave() {
	st.depth--
}

// SourceType returns the type of values the mapper reads.
func (m *Mapper) SourceType() reflect.Type {
	return m.src
}

// DestinationType returns the type of values the mapper produces.
func (m *Mapper) DestinationType() reflect.Type {
	return m.dst
}

// ConfigName returns the name of the configuration the mapper was built with.
func (m *Mapper) ConfigName() string {
	return m.cfg.Name()
}

func (m *Mapper) String() string {
	return common.PairName(m.src, m.dst) + " (" + m.strategy.String() + ")"
}

// Map maps src into a new destination value. An untyped nil is treated as a nil
// value of the source type.
func (m *Mapper) Map(src any) (any, error) {
	return m.MapWithState(src, nil)
}

// MapWithState is Map with a caller state handed to every hook.
func (m *Mapper) MapWithState(src, state any) (any, error) {
	return m.run(src, reflect.Value{}, state)
}

// MapInto maps src into an existing destination and returns it. Pointers and
// maps are populated in place.
func (m *Mapper) MapInto(src, dst any) (any, error) {
	return m.MapIntoWithState(src, dst, nil)
}

// MapIntoWithState is MapInto with a caller state handed to every hook.
func (m *Mapper) MapIntoWithState(src, dst, state any) (any, error) {
	dv := reflect.ValueOf(dst)
	if utils.IsNil(dv) {
		return nil, ErrNilDestination
	}

	if dv.Type() != m.dst {
		return nil, errors.Wrapf(ErrTypeMismatch, "destination %s, mapper %s", common.TypeName(dv.Type()), m)
	}

	return m.run(src, dv, state)
}

func (m *Mapper) run(src any, existing reflect.Value, user any) (any, error) {
	sv, err := m.source(src)
	if err != nil {
		return nil, err
	}

	st := &state{user: user, maxDepth: m.mgr.opts.MaxDepth}

	out, ok, err := m.value(sv, existing, st)
	if err != nil {
		return nil, err
	}

	switch {
	case ok:
		return out.Interface(), nil
	case existing.IsValid():
		return existing.Interface(), nil
	default:
		return reflect.Zero(m.dst).Interface(), nil
	}
}

// source types src as the mapper source type.
func (m *Mapper) source(src any) (reflect.Value, error) {
	sv := reflect.ValueOf(src)

	switch {
	case !sv.IsValid():
		return reflect.Zero(m.src), nil
	case sv.Type() == m.src:
		return sv, nil
	case sv.Type().AssignableTo(m.src):
		typed := reflect.New(m.src).Elem()
		typed.Set(sv)

		return typed, nil
	default:
		return reflect.Value{}, errors.Wrapf(ErrTypeMismatch, "source %s, mapper %s", common.TypeName(sv.Type()), m)
	}
}

// value maps one source value. existing, when valid, is a destination value to
// populate in place. ok=false means nothing is written.
func (m *Mapper) value(src, existing reflect.Value, st *state) (reflect.Value, bool, error) {
	if utils.IsNil(src) {
		return m.null(src, st)
	}

	if c := m.root.Converter; c != nil && c.Applies(src.Type()) {
		out, ok, err := c.Fn(src)
		if err != nil || !ok {
			return reflect.Value{}, false, err
		}

		out, ok = m.mgr.fit(out, m.dst)

		return out, ok, nil
	}

	if m.root.ShallowCopy && src.Type().AssignableTo(m.dst) {
		return src, true, nil
	}

	out, ok, err := m.transfer(src, existing, st)
	if err != nil || !ok {
		return reflect.Value{}, false, err
	}

	if pp := m.postProcessor(); pp != nil {
		if processed, ok := m.mgr.fit(pp(out, st.user), m.dst); ok {
			out = processed
		}
	}

	return out, true, nil
}

// null produces the value written for a nil source: the substitute when one is
// registered, the zero value otherwise.
func (m *Mapper) null(src reflect.Value, st *state) (reflect.Value, bool, error) {
	sub := m.root.NullSubstitutor
	if sub == nil {
		return reflect.Zero(m.dst), true, nil
	}

	if !src.IsValid() {
		src = reflect.Zero(m.src)
	}

	out, ok := m.mgr.fit(sub(src, st.user), m.dst)

	return out, ok, nil
}

func (m *Mapper) transfer(src, existing reflect.Value, st *state) (reflect.Value, bool, error) {
	switch m.strategy {
	case strategyAssign:
		return src, true, nil
	case strategyOperations:
		return m.populate(src, existing, st)
	case strategyPointer:
		return m.pointer(src.Elem(), existing, st)
	case strategyPointerDeref:
		return m.elem.value(src.Elem(), existing, st)
	case strategyPointerWrap:
		return m.pointer(src, existing, st)
	case strategySliceMap:
		return m.sequence(src, st)
	case strategyMap:
		return m.mapping(src, st)
	case strategyInterface:
		return m.dynamic(src, st)
	default:
		out, ok := m.mgr.coercion.Convert(src, m.dst)
		return out, ok, nil
	}
}

// postProcessor skips the hook of a pointer pair when the pointee pair runs one.
func (m *Mapper) postProcessor() mapping.PostProcessor {
	switch m.strategy {
	case strategyPointer, strategyPointerDeref, strategyPointerWrap:
		if m.elem.root.PostProcessor != nil {
			return nil
		}
	}

	return m.root.PostProcessor
}

func (m *Mapper) populate(src, existing reflect.Value, st *state) (reflect.Value, bool, error) {
	if err := st.enter(); err != nil {
		return reflect.Value{}, false, err
	}
	defer st.leave()

	target := m.target(existing)

	for _, s := range m.steps {
		if err := s(src, target, st); err != nil {
			return reflect.Value{}, false, err
		}
	}

	return target, true, nil
}

// target returns an addressable destination: existing itself when settable, a
// copy sharing its references otherwise, or a newly constructed value.
func (m *Mapper) target(existing reflect.Value) reflect.Value {
	if existing.IsValid() && existing.CanSet() {
		if existing.Kind() == reflect.Map && existing.IsNil() {
			existing.Set(reflect.MakeMap(m.dst))
		}

		return existing
	}

	t := reflect.New(m.dst).Elem()

	switch {
	case existing.IsValid():
		t.Set(existing)
	case m.root.Constructor != nil:
		if v, ok := m.mgr.fit(m.root.Constructor(), m.dst); ok {
			t.Set(v)
		}
	}

	if t.Kind() == reflect.Map && t.IsNil() {
		t.Set(reflect.MakeMap(m.dst))
	}

	return t
}

// pointer maps src into the pointee of existing, or of a newly allocated pointer.
func (m *Mapper) pointer(src, existing reflect.Value, st *state) (reflect.Value, bool, error) {
	p := existing
	if !p.IsValid() || p.IsNil() {
		p = m.allocate()
	}

	out, ok, err := m.elem.value(src, p.Elem(), st)
	if err != nil || !ok {
		return reflect.Value{}, false, err
	}

	p.Elem().Set(out)

	return p, true, nil
}

func (m *Mapper) allocate() reflect.Value {
	if m.root.Constructor != nil {
		if p, ok := m.mgr.fit(m.root.Constructor(), m.dst); ok && !p.IsNil() {
			return p
		}
	}

	return reflect.New(m.dst.Elem())
}

func (m *Mapper) sequence(src reflect.Value, st *state) (reflect.Value, bool, error) {
	n := src.Len()

	var out reflect.Value
	if m.dst.Kind() == reflect.Slice {
		out = reflect.MakeSlice(m.dst, n, n)
	} else {
		out = reflect.New(m.dst).Elem()
		n = min(n, m.dst.Len())
	}

	for i := range n {
		v, ok, err := m.elem.value(src.Index(i), reflect.Value{}, st)
		if err != nil {
			return reflect.Value{}, false, errors.Wrapf(err, "index %d", i)
		}

		if ok {
			out.Index(i).Set(v)
		}
	}

	return out, true, nil
}

func (m *Mapper) mapping(src reflect.Value, st *state) (reflect.Value, bool, error) {
	out := reflect.MakeMapWithSize(m.dst, src.Len())

	iter := src.MapRange()
	for iter.Next() {
		k, ok, err := m.key.value(iter.Key(), reflect.Value{}, st)
		if err != nil {
			return reflect.Value{}, false, errors.Wrapf(err, "key %v", iter.Key())
		}

		if !ok {
			continue
		}

		v, ok, err := m.elem.value(iter.Value(), reflect.Value{}, st)
		if err != nil {
			return reflect.Value{}, false, errors.Wrapf(err, "key %v", iter.Key())
		}

		if ok {
			out.SetMapIndex(k, v)
		}
	}

	return out, true, nil
}

// dynamic maps the dynamic value of an interface. Into an interface the value
// keeps its dynamic type.
func (m *Mapper) dynamic(src reflect.Value, st *state) (reflect.Value, bool, error) {
	if src.Kind() == reflect.Interface {
		src = src.Elem()
	}

	target := m.dst
	if target.Kind() == reflect.Interface {
		if !src.Type().AssignableTo(target) {
			return reflect.Value{}, false, nil
		}

		target = src.Type()
	}

	inner, err := m.mgr.GetMapper(src.Type(), target, m.cfg)
	if err != nil {
		return reflect.Value{}, false, err
	}

	out, ok, err := inner.value(src, reflect.Value{}, st)
	if err != nil || !ok {
		return reflect.Value{}, false, err
	}

	out, ok = m.mgr.fit(out, m.dst)

	return out, ok, nil
}
