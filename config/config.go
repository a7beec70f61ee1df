package config

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/internal/match"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
)

const (
	// DefaultName is the name of a DefaultConfig without customizations.
	DefaultName = "default"
	// IgnoreTag is the struct tag that excludes a member when set to "-".
	IgnoreTag = "mapper"
)

type pairKey struct {
	src, dst reflect.Type
}

type memberKey struct {
	owner reflect.Type
	name  string
}

// DefaultConfig matches destination members to source members by name and
// applies the overrides registered through its fluent methods.
//
// A DefaultConfig must not be modified once mappers were built from it.
type DefaultConfig struct {
	name     string
	parts    []string
	instance uuid.UUID // set once a function value is registered
	errs     error

	matcher   match.Matcher
	flatten   bool
	deep      bool
	deepTypes map[reflect.Type]bool

	ignored map[pairKey][]string
	casters []Caster
	members map[memberKey]Caster
	nulls   map[pairKey]hook
	post    map[reflect.Type]hook
	ctors   map[reflect.Type]hook

	dstFilter func(mapping.Member) bool
	srcFilter func(mapping.Member) bool
}

var _ mapping.Configurator = (*DefaultConfig)(nil)

// Default returns a configuration that deep maps members with equal names.
func Default() *DefaultConfig {
	return &DefaultConfig{
		matcher:   match.Exact(),
		deep:      true,
		deepTypes: map[reflect.Type]bool{},
		ignored:   map[pairKey][]string{},
		members:   map[memberKey]Caster{},
		nulls:     map[pairKey]hook{},
		post:      map[reflect.Type]hook{},
		ctors:     map[reflect.Type]hook{},
	}
}

// CaseInsensitive returns a DefaultConfig matching names regardless of case.
func CaseInsensitive() *DefaultConfig {
	return Default().useMatcher(match.CaseInsensitive())
}

// Flattening returns a DefaultConfig that also matches a destination member
// such as CustomerName against the source chain Customer.Name.
func Flattening() *DefaultConfig {
	c := Default()
	c.flatten = true
	c.record("flatten")

	return c
}

// Name identifies the configuration in mapper caches. Configurations built by the
// same calls share a name unless SetName overrides it. A configuration holding
// function values is unique to its instance, since two closures of one literal
// may capture different values.
func (c *DefaultConfig) Name() string {
	if c.name != "" {
		return c.name
	}

	if c.instance != uuid.Nil {
		return DefaultName + "-" + c.instance.String()
	}

	if len(c.parts) == 0 {
		return DefaultName
	}

	return DefaultName + "-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(c.parts, "\n"))).String()
}

// SetName overrides the computed name.
func (c *DefaultConfig) SetName(name string) *DefaultConfig {
	c.name = name
	return c
}

// Err returns the errors recorded while the configuration was authored.
func (c *DefaultConfig) Err() error {
	return c.errs
}

// DeepMap makes complex members be mapped recursively. It is the default.
func (c *DefaultConfig) DeepMap() *DefaultConfig {
	c.deep = true
	c.record("deep")

	return c
}

// ShallowMap makes complex members be assigned by reference.
func (c *DefaultConfig) ShallowMap() *DefaultConfig {
	c.deep = false
	c.record("shallow")

	return c
}

// DeepMapType deep maps members of type t regardless of the global policy.
func (c *DefaultConfig) DeepMapType(t reflect.Type) *DefaultConfig {
	c.deepTypes[t] = true
	c.record("deep:" + common.QualifiedName(t))

	return c
}

// ShallowMapType assigns members of type t by reference regardless of the global policy.
func (c *DefaultConfig) ShallowMapType(t reflect.Type) *DefaultConfig {
	c.deepTypes[t] = false
	c.record("shallow:" + common.QualifiedName(t))

	return c
}

// IgnoreMembers excludes destination members of dst when mapping from src.
// A nil src applies to every source type. Unknown names fail the first build.
func (c *DefaultConfig) IgnoreMembers(src, dst reflect.Type, names ...string) *DefaultConfig {
	key := pairKey{deref(src), deref(dst)}
	c.ignored[key] = append(c.ignored[key], names...)
	c.record("ignore:" + common.QualifiedName(key.src) + "->" + common.QualifiedName(key.dst) + ":" + strings.Join(names, ","))

	return c
}

// ConvertUsing registers fn as the converter for its (S, D) pair. See ParseCaster
// for the accepted signatures.
func (c *DefaultConfig) ConvertUsing(fn any) *DefaultConfig {
	cst, err := ParseCaster(fn)
	if err != nil {
		c.fail(errors.Wrap(err, "ConvertUsing"))
		return c
	}

	c.casters = append(c.casters, cst)
	c.recordFunc("convert:" + cst.Ident())

	return c
}

// ConvertMember registers fn as the converter for one member of dst.
func (c *DefaultConfig) ConvertMember(dst reflect.Type, member string, fn any) *DefaultConfig {
	cst, err := ParseCaster(fn)
	if err != nil {
		c.fail(errors.Wrapf(err, "ConvertMember %s.%s", common.TypeName(dst), member))
		return c
	}

	c.members[memberKey{deref(dst), member}] = cst
	c.recordFunc("member:" + common.QualifiedName(deref(dst)) + "." + member + "=" + cst.Ident())

	return c
}

// NullSubstitution registers the value written in place of a nil source value.
// Accepted signatures are func() D, func(state any) D and func(S) D; the first
// two apply to every source type.
func (c *DefaultConfig) NullSubstitution(fn any) *DefaultConfig {
	h, err := parseNullSubstitution(fn)
	if err != nil {
		c.fail(err)
		return c
	}

	c.nulls[pairKey{h.src, h.dst}] = h
	c.recordFunc("null:" + h.ident)

	return c
}

// PostProcess registers fn, with signature func(D, state any) D, to run on every
// mapped value of D, including values reached through *D.
func (c *DefaultConfig) PostProcess(fn any) *DefaultConfig {
	h, err := parsePostProcess(fn)
	if err != nil {
		c.fail(err)
		return c
	}

	c.post[h.dst] = h
	c.recordFunc("post:" + h.ident)

	return c
}

// ConstructBy registers fn, with signature func() D, to create new values of D.
func (c *DefaultConfig) ConstructBy(fn any) *DefaultConfig {
	h, err := parseConstructor(fn)
	if err != nil {
		c.fail(err)
		return c
	}

	c.ctors[h.dst] = h
	c.recordFunc("ctor:" + h.ident)

	return c
}

// MatchMembers replaces the name matcher with fn.
func (c *DefaultConfig) MatchMembers(fn func(src, dst string) bool) *DefaultConfig {
	if fn == nil {
		c.fail(errors.Wrap(ErrNotAFunction, "MatchMembers"))
		return c
	}

	alias, name := funcName(reflect.ValueOf(fn))
	c.recordFunc("")

	return c.useMatcher(match.Func("func:"+alias+"."+name, fn))
}

// MatchPrefix matches a source member Name with the destination member prefix+Name.
func (c *DefaultConfig) MatchPrefix(prefix string) *DefaultConfig {
	return c.useMatcher(match.Prefix(prefix))
}

// MatchNormalized matches names equal after normalization, so order_id matches OrderID.
func (c *DefaultConfig) MatchNormalized() *DefaultConfig {
	return c.useMatcher(match.Normalized())
}

// FilterDestination keeps only the destination members accepted by fn.
func (c *DefaultConfig) FilterDestination(fn func(mapping.Member) bool) *DefaultConfig {
	c.dstFilter = fn
	alias, name := funcName(reflect.ValueOf(fn))
	c.recordFunc("filter-dst:" + alias + "." + name)

	return c
}

// FilterSource keeps only the source members accepted by fn.
func (c *DefaultConfig) FilterSource(fn func(mapping.Member) bool) *DefaultConfig {
	c.srcFilter = fn
	alias, name := funcName(reflect.ValueOf(fn))
	c.recordFunc("filter-src:" + alias + "." + name)

	return c
}

func (c *DefaultConfig) useMatcher(m match.Matcher) *DefaultConfig {
	c.matcher = m
	c.record("match:" + m.Name())

	return c
}

func (c *DefaultConfig) record(part string) {
	c.parts = append(c.parts, part)
}

// recordFunc records a part carrying a function value.
func (c *DefaultConfig) recordFunc(part string) {
	if c.instance == uuid.Nil {
		c.instance = uuid.New()
	}

	if part != "" {
		c.record(part)
	}
}

func (c *DefaultConfig) fail(err error) {
	c.errs = errors.CombineErrors(c.errs, err)
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}
