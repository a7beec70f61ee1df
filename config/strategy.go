package config

import (
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/analyze"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/internal/match"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
)

// Operations pairs every writable destination member with a readable source
// member accepted by the matcher. Members without a match are left out.
func (c *DefaultConfig) Operations(src, dst reflect.Type) ([]mapping.Operation, error) {
	if c.errs != nil {
		return nil, c.errs
	}

	src, dst = deref(src), deref(dst)
	if analyze.KindOf(src) != analyze.TypeKindStruct || analyze.KindOf(dst) != analyze.TypeKindStruct {
		return nil, nil
	}

	ignored, err := c.ignoredMembers(src, dst)
	if err != nil {
		return nil, err
	}

	if err := c.checkMemberConverters(dst); err != nil {
		return nil, err
	}

	sources := c.sources(src)

	var ops []mapping.Operation

	for _, dm := range analyze.Writable(dst) {
		if _, skip := ignored[dm.Name]; skip || !c.includeDestination(dm) {
			continue
		}

		sp, ok := c.findSource(sources, dm)
		if !ok {
			continue
		}

		op, err := c.readWrite(sp, dm)
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
	}

	return ops, nil
}

// RootOperation collects the per-type settings registered for the pair.
func (c *DefaultConfig) RootOperation(src, dst reflect.Type) *mapping.RootOperation {
	root := &mapping.RootOperation{
		ShallowCopy:     !c.isDeep(dst),
		NullSubstitutor: c.nullSubstitutor(src, dst),
		Constructor:     c.constructor(dst),
		PostProcessor:   c.postProcessor(dst),
	}

	if cst, ok := c.pairCaster(src, dst); ok {
		root.Converter = cst.Converter()
	}

	return root
}

func (c *DefaultConfig) readWrite(sp mapping.MemberPath, dm mapping.Member) (*mapping.ReadWrite, error) {
	op := &mapping.ReadWrite{
		Source:          sp,
		Destination:     mapping.PathOf(dm),
		ShallowCopy:     !c.isDeep(dm.Type),
		NullSubstitutor: c.nullSubstitutor(sp.Type(), dm.Type),
	}

	if cst, ok := c.members[memberKey{dm.Owner, dm.Name}]; ok {
		conv := cst.Converter()
		if !conv.Applies(sp.Type()) {
			return nil, errors.Wrapf(ErrInvalidConverter, "converter %s for %s accepts %s, source %s is %s",
				cst.Ident(), dm, common.TypeName(cst.Src), sp, common.TypeName(sp.Type()))
		}

		op.Converter = conv

		return op, nil
	}

	if cst, ok := c.pairCaster(sp.Type(), dm.Type); ok {
		op.Converter = cst.Converter()
	}

	return op, nil
}

func (c *DefaultConfig) ignoredMembers(src, dst reflect.Type) (map[string]struct{}, error) {
	res := map[string]struct{}{}

	for _, key := range []pairKey{{nil, dst}, {src, dst}} {
		for _, name := range c.ignored[key] {
			if _, err := mapping.LookupMember(dst, name); err != nil {
				return nil, errors.Wrap(err, "IgnoreMembers")
			}

			res[name] = struct{}{}
		}
	}

	return res, nil
}

func (c *DefaultConfig) checkMemberConverters(dst reflect.Type) error {
	for key := range c.members {
		if key.owner != dst {
			continue
		}

		if _, err := mapping.LookupMember(dst, key.name); err != nil {
			return errors.Wrap(err, "ConvertMember")
		}
	}

	return nil
}

func (c *DefaultConfig) sources(src reflect.Type) []mapping.Member {
	return slices.DeleteFunc(analyze.Readable(src), func(m mapping.Member) bool {
		return ignoredByTag(m) || (c.srcFilter != nil && !c.srcFilter(m))
	})
}

func (c *DefaultConfig) includeDestination(m mapping.Member) bool {
	return !ignoredByTag(m) && (c.dstFilter == nil || c.dstFilter(m))
}

func ignoredByTag(m mapping.Member) bool {
	return m.Tag.Get(IgnoreTag) == "-"
}

// findSource returns the source member accepted by the matcher, then the
// flattened chain when flattening is enabled. When several members match, the
// one whose type is closest to the destination wins; ties keep member order.
func (c *DefaultConfig) findSource(sources []mapping.Member, dm mapping.Member) (mapping.MemberPath, bool) {
	var (
		best  mapping.Member
		score = match.TypeCompatibility(-1)
	)

	for _, sm := range sources {
		if !c.matcher.Match(sm.Name, dm.Name) {
			continue
		}

		if s := match.ScoreTypeCompatibility(sm.Type, dm.Type).Compatibility; s > score {
			best, score = sm, s
		}
	}

	if score >= 0 {
		return mapping.PathOf(best), true
	}

	if !c.flatten {
		return mapping.MemberPath{}, false
	}

	chain, ok := c.flattened(sources, dm.Name)
	if !ok {
		return mapping.MemberPath{}, false
	}

	path, err := mapping.NewPath(chain...)

	return path, err == nil
}

// flattened resolves name as a concatenation of nested member names. The longest
// source member name that prefixes name wins; the rest is resolved in its type.
func (c *DefaultConfig) flattened(sources []mapping.Member, name string) ([]mapping.Member, bool) {
	var candidates []string

	for _, sm := range sources {
		if len(sm.Name) < len(name) && analyze.KindOf(deref(sm.Type)) == analyze.TypeKindStruct {
			candidates = append(candidates, sm.Name)
		}
	}

	prefix, ok := match.LongestPrefix(name, candidates)
	if !ok {
		return nil, false
	}

	head := sources[slices.IndexFunc(sources, func(m mapping.Member) bool { return m.Name == prefix })]
	rest := name[len(prefix):]
	nested := c.sources(deref(head.Type))

	for _, sm := range nested {
		if c.matcher.Match(sm.Name, rest) {
			return []mapping.Member{head, sm}, true
		}
	}

	tail, ok := c.flattened(nested, rest)
	if !ok {
		return nil, false
	}

	return append([]mapping.Member{head}, tail...), true
}

func (c *DefaultConfig) isDeep(t reflect.Type) bool {
	if deep, ok := c.deepTypes[t]; ok {
		return deep
	}

	if deep, ok := c.deepTypes[deref(t)]; ok {
		return deep
	}

	return c.deep
}

// pairCaster finds the most recently registered converter accepting src and
// producing dst.
func (c *DefaultConfig) pairCaster(src, dst reflect.Type) (Caster, bool) {
	for i := len(c.casters) - 1; i >= 0; i-- {
		cst := c.casters[i]
		if cst.Dst == dst && cst.Converter().Applies(src) {
			return cst, true
		}
	}

	return Caster{}, false
}

func (c *DefaultConfig) nullSubstitutor(src, dst reflect.Type) mapping.NullSubstitutor {
	targets := []reflect.Type{dst}
	if dst.Kind() == reflect.Ptr {
		targets = append(targets, dst.Elem())
	}

	for _, target := range targets {
		for _, key := range []pairKey{{deref(src), target}, {nil, target}} {
			if h, ok := c.nulls[key]; ok {
				return h.substitutor(dst)
			}
		}
	}

	return nil
}

func (c *DefaultConfig) postProcessor(dst reflect.Type) mapping.PostProcessor {
	if h, ok := c.post[dst]; ok {
		return h.postProcessor(dst)
	}

	if dst.Kind() == reflect.Ptr {
		if h, ok := c.post[dst.Elem()]; ok {
			return h.postProcessor(dst)
		}
	}

	return nil
}

func (c *DefaultConfig) constructor(dst reflect.Type) mapping.Constructor {
	if h, ok := c.ctors[dst]; ok {
		return h.constructor(dst)
	}

	if dst.Kind() == reflect.Ptr {
		if h, ok := c.ctors[dst.Elem()]; ok {
			return h.constructor(dst)
		}
	}

	if h, ok := c.ctors[reflect.PointerTo(dst)]; ok {
		return h.constructor(dst)
	}

	return nil
}
