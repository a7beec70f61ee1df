package mapper

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

// builder compiles the mappers of one GetMapper call. Mappers are registered in
// pending before they are compiled, so recursive type graphs resolve to the
// instance being built.
type builder struct {
	mgr     *Manager
	cfg     mapping.Configurator
	name    string
	pending map[mapperKey]*Mapper
}

func newBuilder(mgr *Manager, cfg mapping.Configurator) *builder {
	return &builder{
		mgr:     mgr,
		cfg:     cfg,
		name:    cfg.Name(),
		pending: map[mapperKey]*Mapper{},
	}
}

func (b *builder) mapper(src, dst reflect.Type) (*Mapper, error) {
	key := mapperKey{src: src, dst: dst, cfg: b.name}

	if m, ok := b.mgr.cached(key); ok {
		return m, nil
	}

	if m, ok := b.pending[key]; ok {
		return m, nil
	}

	m := &Mapper{
		src:      src,
		dst:      dst,
		cfg:      b.cfg,
		mgr:      b.mgr,
		strategy: determineStrategy(src, dst),
	}
	b.pending[key] = m

	if err := b.compile(m); err != nil {
		return nil, err
	}

	return m, nil
}

func (b *builder) compile(m *Mapper) error {
	if root := b.cfg.RootOperation(m.src, m.dst); root != nil {
		m.root = *root
	}

	var err error

	switch m.strategy {
	case strategyOperations:
		err = b.operations(m)
	case strategyPointer:
		m.elem, err = b.mapper(m.src.Elem(), m.dst.Elem())
	case strategyPointerDeref:
		m.elem, err = b.mapper(m.src.Elem(), m.dst)
	case strategyPointerWrap:
		m.elem, err = b.mapper(m.src, m.dst.Elem())
	case strategySliceMap:
		m.elem, err = b.mapper(m.src.Elem(), m.dst.Elem())
	case strategyMap:
		if m.key, err = b.mapper(m.src.Key(), m.dst.Key()); err == nil {
			m.elem, err = b.mapper(m.src.Elem(), m.dst.Elem())
		}
	}

	return err
}

func (b *builder) operations(m *Mapper) error {
	ops, err := b.cfg.Operations(m.src, m.dst)
	if err != nil {
		return err
	}

	m.steps = make([]step, 0, len(ops))

	for _, op := range ops {
		var s step

		switch op := op.(type) {
		case *mapping.ReadWrite:
			s, err = b.readWrite(m, op)
		case *mapping.DestWrite:
			s, err = b.destWrite(op)
		case *mapping.SrcRead:
			s, err = b.srcRead(op)
		default:
			err = errors.Newf("unsupported operation %T", op)
		}

		if err != nil {
			return err
		}

		m.steps = append(m.steps, s)
	}

	return nil
}

func (b *builder) readWrite(m *Mapper, op *mapping.ReadWrite) (step, error) {
	from, to := op.Source, op.Destination
	if !from.CanRead() {
		return nil, errors.Wrapf(mapping.ErrInvalidPath, "%s cannot be read", from)
	}

	if !to.CanWrite() {
		return nil, errors.Wrapf(mapping.ErrInvalidPath, "%s cannot be written", to)
	}

	var (
		nested *Mapper
		err    error
	)

	if op.Converter == nil {
		if nested, err = b.mapper(from.Type(), to.Type()); err != nil {
			return nil, err
		}
	}

	dstType, member := to.Type(), to.String()

	return func(sv, dv reflect.Value, st *state) error {
		v, ok := from.Get(sv)
		if !ok {
			return nil
		}

		var (
			out   reflect.Value
			write bool
			err   error
		)

		switch {
		case utils.IsNil(v) && op.NullSubstitutor != nil:
			out, write = b.mgr.fit(op.NullSubstitutor(v, st.user), dstType)
		case utils.IsNil(v) && nested == nil:
			out, write = reflect.Zero(dstType), true
		case op.Converter != nil:
			if out, write, err = op.Converter.Fn(v); err == nil && write {
				out, write = b.mgr.fit(out, dstType)
			}
		case op.ShallowCopy && v.Type().AssignableTo(dstType):
			out, write = v, true
		default:
			out, write, err = nested.value(v, existing(to, dv), st)
		}

		if err != nil {
			return memberError(m.src, m.dst, member, err)
		}

		if write {
			to.Set(dv, out)
		}

		return nil
	}, nil
}

// existing returns the non-nil pointer currently stored at path, which deep
// mapping populates in place.
func existing(path mapping.MemberPath, dv reflect.Value) reflect.Value {
	if path.Type().Kind() != reflect.Ptr {
		return reflect.Value{}
	}

	cur, ok := path.Get(dv)
	if !ok || cur.IsNil() {
		return reflect.Value{}
	}

	return cur
}

func (b *builder) destWrite(op *mapping.DestWrite) (step, error) {
	to := op.Destination
	if !to.CanWrite() {
		return nil, errors.Wrapf(mapping.ErrInvalidPath, "%s cannot be written", to)
	}

	if op.Getter == nil {
		return nil, errors.Wrapf(mapping.ErrInvalidPath, "%s has no getter", to)
	}

	dstType := to.Type()

	return func(sv, dv reflect.Value, st *state) error {
		x, ok := op.Getter(sv.Interface(), st.user)
		if !ok {
			return nil
		}

		out := reflect.Zero(dstType)
		if x != nil {
			if out, ok = b.mgr.fit(reflect.ValueOf(x), dstType); !ok {
				return nil
			}
		}

		to.Set(dv, out)

		return nil
	}, nil
}

func (b *builder) srcRead(op *mapping.SrcRead) (step, error) {
	from := op.Source
	if !from.CanRead() {
		return nil, errors.Wrapf(mapping.ErrInvalidPath, "%s cannot be read", from)
	}

	if op.Setter == nil {
		return nil, errors.Wrapf(mapping.ErrInvalidPath, "%s has no setter", from)
	}

	return func(sv, dv reflect.Value, st *state) error {
		v, ok := from.Get(sv)
		if !ok {
			return nil
		}

		var x any
		if v.IsValid() && v.CanInterface() {
			x = v.Interface()
		}

		target := dv
		if dv.Kind() != reflect.Ptr {
			target = dv.Addr()
		}

		op.Setter(target.Interface(), x, st.user)

		return nil
	}, nil
}
