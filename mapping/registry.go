package mapping

import (
	"reflect"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/antonsamarsky/emitmapper-tools/internal/analyze"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/options"
)

// ErrUnknownType is returned when a descriptor names a type that was never registered.
var ErrUnknownType = errors.New("unknown type")

// Registry resolves the field descriptors of Go types. Descriptors loaded from a
// file replace the struct tags of the type they name. It is safe for concurrent use.
type Registry struct {
	id      uuid.UUID
	tagName string

	mu         sync.RWMutex
	types      map[string]reflect.Type
	fieldTypes map[string]reflect.Type
	entries    map[reflect.Type]TypeEntry
	described  map[reflect.Type][]MemberDescriptor
}

// NewRegistry creates an empty registry. Only the TagName option is used.
func NewRegistry(opts ...options.Option) *Registry {
	o := options.New(opts...)

	return &Registry{
		id:         uuid.New(),
		tagName:    o.TagName,
		types:      map[string]reflect.Type{},
		fieldTypes: map[string]reflect.Type{},
		entries:    map[reflect.Type]TypeEntry{},
		described:  map[reflect.Type][]MemberDescriptor{},
	}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry, which reads the "field" tag.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// ID identifies the registry in the names of configurations that use it.
func (r *Registry) ID() string {
	return r.id.String()
}

// TagName returns the struct tag the registry reads.
func (r *Registry) TagName() string {
	return r.tagName
}

// RegisterType makes t known by its short name ("Entity") and its qualified name
// ("domain.Entity") and checks its field tags.
func (r *Registry) RegisterType(t reflect.Type) error {
	t = deref(t)
	if t == nil || t.Kind() != reflect.Struct {
		return errors.Wrapf(ErrUnknownType, "%s is not a struct type", common.TypeName(t))
	}

	r.mu.Lock()
	r.types[t.Name()] = t
	r.types[common.TypeName(t)] = t
	delete(r.described, t)
	r.mu.Unlock()

	_, err := r.Describe(t)

	return err
}

// RegisterFieldType adds a type name usable in ",type=" tag options and file entries.
func (r *Registry) RegisterFieldType(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fieldTypes[name] = t
	clear(r.described)
}

// TypeByName returns a type registered with RegisterType.
func (r *Registry) TypeByName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]

	return t, ok
}

// TypeNames returns the registered type names in sorted order.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// FieldType resolves a field type name: builtin names first, then names added
// with RegisterFieldType, then registered types.
func (r *Registry) FieldType(name string) (reflect.Type, bool) {
	if t, ok := builtinFieldTypes[name]; ok {
		return t, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.fieldTypes[name]; ok {
		return t, true
	}

	t, ok := r.types[name]

	return t, ok
}

// Load validates f and binds its entries to the registered types.
func (r *Registry) Load(f *File) error {
	diags := r.Validate(f)
	if err := diags.Error(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range f.Types {
		t := r.types[entry.Type]
		r.entries[t] = entry
		delete(r.described, t)
	}

	return nil
}

// LoadFile reads, validates and binds a descriptor file.
func (r *Registry) LoadFile(path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}

	return r.Load(f)
}

// Table returns the logical container name a file assigned to t, if any.
func (r *Registry) Table(t reflect.Type) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries[deref(t)].Table
}

// Describe returns the members of t that declare fields, in member order.
// Types without a file entry are described by their struct tags.
func (r *Registry) Describe(t reflect.Type) ([]MemberDescriptor, error) {
	t = deref(t)

	r.mu.RLock()
	cached, ok := r.described[t]
	entry, hasEntry := r.entries[t]
	r.mu.RUnlock()

	if ok {
		return cached, nil
	}

	var (
		descs []MemberDescriptor
		err   error
	)

	if hasEntry {
		descs, err = r.describeEntry(t, entry)
	} else {
		descs, err = r.describeTags(t)
	}

	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.described[t] = descs
	r.mu.Unlock()

	return descs, nil
}

// DescribeMember returns the field descriptors of one member of t.
func (r *Registry) DescribeMember(t reflect.Type, name string) ([]FieldDescriptor, error) {
	if _, err := LookupMember(t, name); err != nil {
		return nil, err
	}

	descs, err := r.Describe(t)
	if err != nil {
		return nil, err
	}

	for _, d := range descs {
		if d.Member.Name == name {
			return slices.Clone(d.Fields), nil
		}
	}

	return nil, nil
}

func (r *Registry) describeTags(t reflect.Type) ([]MemberDescriptor, error) {
	var descs []MemberDescriptor

	for _, m := range analyze.Members(t) {
		tag, ok := m.Tag.Lookup(r.tagName)
		if !ok || tag == "-" {
			continue
		}

		parsed, err := ParseTag(tag)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", m)
		}

		specs := make(FieldList, 0, len(parsed))
		for _, p := range parsed {
			specs = append(specs, FieldSpec(p))
		}

		desc, err := r.memberDescriptor(m, specs)
		if err != nil {
			return nil, err
		}

		descs = append(descs, desc)
	}

	return descs, nil
}

func (r *Registry) describeEntry(t reflect.Type, entry TypeEntry) ([]MemberDescriptor, error) {
	var descs []MemberDescriptor

	for _, m := range analyze.Members(t) {
		specs, ok := entry.Fields[m.Name]
		if !ok || slices.Contains(entry.Ignore, m.Name) {
			continue
		}

		desc, err := r.memberDescriptor(m, specs)
		if err != nil {
			return nil, err
		}

		descs = append(descs, desc)
	}

	return descs, nil
}

func (r *Registry) memberDescriptor(m Member, specs FieldList) (MemberDescriptor, error) {
	desc := MemberDescriptor{Member: m, Fields: make([]FieldDescriptor, 0, len(specs))}
	seen := map[string]struct{}{}

	for _, spec := range specs {
		if spec.Name == "" {
			return MemberDescriptor{}, errors.Wrapf(ErrInvalidDescriptor, "%s: empty field name", m)
		}

		if _, dup := seen[spec.Name]; dup {
			return MemberDescriptor{}, errors.Wrapf(ErrInvalidDescriptor, "%s: duplicate field %q", m, spec.Name)
		}
		seen[spec.Name] = struct{}{}

		ft := m.Type
		if spec.Type != "" {
			var ok bool
			if ft, ok = r.FieldType(spec.Type); !ok {
				return MemberDescriptor{}, errors.Wrapf(ErrInvalidDescriptor, "%s: unknown field type %q", m, spec.Type)
			}
		}

		desc.Fields = append(desc.Fields, FieldDescriptor{Name: spec.Name, Type: ft})
	}

	return desc, nil
}
