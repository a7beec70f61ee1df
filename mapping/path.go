package mapping

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/analyze"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/internal/diagnostic"
	"github.com/antonsamarsky/emitmapper-tools/internal/match"
)

var (
	// ErrUnknownMember is returned when a path or an override names a member the
	// type does not have.
	ErrUnknownMember = errors.New("unknown member")
	// ErrInvalidPath is returned for malformed paths and for paths that cannot be
	// read or written in the required direction.
	ErrInvalidPath = errors.New("invalid member path")
)

// maxSuggestions bounds the "did you mean" list attached to unknown member errors.
const maxSuggestions = 3

// Member is a mappable field or method property of a struct type.
type Member = analyze.Member

// MemberPath is an immutable, non-empty chain of member accesses.
type MemberPath struct {
	members []Member
}

// NewPath builds a path from members. Each member after the first must belong to
// the type of its predecessor.
func NewPath(members ...Member) (MemberPath, error) {
	if len(members) == 0 {
		return MemberPath{}, errors.Wrap(ErrInvalidPath, "empty path")
	}

	for i := 1; i < len(members); i++ {
		prev := deref(members[i-1].Type)
		if members[i].Owner != prev {
			return MemberPath{}, errors.Wrapf(ErrInvalidPath,
				"%s does not belong to %s", members[i], common.TypeName(prev))
		}
	}

	return MemberPath{members: slices.Clone(members)}, nil
}

// PathOf is NewPath for a single member.
func PathOf(m Member) MemberPath {
	return MemberPath{members: []Member{m}}
}

// ParsePath resolves a dotted member path such as "Customer.Name" against t.
func ParsePath(t reflect.Type, path string) (MemberPath, error) {
	if path == "" {
		return MemberPath{}, errors.Wrap(ErrInvalidPath, "empty path")
	}

	var (
		members []Member
		cur     = t
	)

	for name := range strings.SplitSeq(path, ".") {
		if name == "" {
			return MemberPath{}, errors.Wrapf(ErrInvalidPath, "%q: empty segment", path)
		}

		m, err := LookupMember(cur, name)
		if err != nil {
			return MemberPath{}, err
		}

		members = append(members, m)
		cur = m.Type
	}

	return MemberPath{members: members}, nil
}

// LookupMember finds a member by name. An unknown name yields ErrUnknownMember
// with the closest member names as suggestions.
func LookupMember(t reflect.Type, name string) (Member, error) {
	if m, ok := analyze.Lookup(t, name); ok {
		return m, nil
	}

	return Member{}, UnknownMemberError(t, name)
}

// UnknownMemberError builds the ErrUnknownMember error for name on t.
func UnknownMemberError(t reflect.Type, name string) error {
	diag := diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        diagnostic.CodeUnknownMember,
		Message:     "no member " + name,
		TypePair:    common.TypeName(t),
		Suggestions: match.Suggest(name, analyze.Names(analyze.Members(t)), maxSuggestions),
	}

	return errors.Wrapf(ErrUnknownMember, "%s", diag.String())
}

// Members returns a copy of the path elements.
func (p MemberPath) Members() []Member {
	return slices.Clone(p.members)
}

// Len returns the number of members in the path.
func (p MemberPath) Len() int {
	return len(p.members)
}

// IsZero reports whether p was never initialized.
func (p MemberPath) IsZero() bool {
	return len(p.members) == 0
}

// First returns the first member.
func (p MemberPath) First() Member {
	m, _ := common.First(p.members)
	return m
}

// Last returns the member the path ends with.
func (p MemberPath) Last() Member {
	m, _ := common.Last(p.members)
	return m
}

// Type returns the declared type of the value the path points at.
func (p MemberPath) Type() reflect.Type {
	return p.Last().Type
}

// Owner returns the type the path starts from.
func (p MemberPath) Owner() reflect.Type {
	return p.First().Owner
}

// String renders the path as dotted member names.
func (p MemberPath) String() string {
	return strings.Join(analyze.Names(p.members), ".")
}

// CanRead reports whether every element of the path can be read.
func (p MemberPath) CanRead() bool {
	if p.IsZero() {
		return false
	}

	for _, m := range p.members {
		if !m.CanRead {
			return false
		}
	}

	return true
}

// CanWrite reports whether the path can be written: the last element must be
// writable and intermediate elements readable and writable.
func (p MemberPath) CanWrite() bool {
	if p.IsZero() {
		return false
	}

	n := len(p.members) - 1
	for _, m := range p.members[:n] {
		if !m.CanRead || !m.CanWrite {
			return false
		}
	}

	return p.members[n].CanWrite
}

// Get reads the value at the path from v. It returns false when a nil pointer
// is crossed before the last member.
func (p MemberPath) Get(v reflect.Value) (reflect.Value, bool) {
	if p.IsZero() {
		return reflect.Value{}, false
	}

	for _, m := range p.members {
		var ok bool
		if v, ok = m.Get(v); !ok {
			return reflect.Value{}, false
		}
	}

	return v, true
}

// Set writes x at the path inside v, allocating nil intermediate pointers.
// v must be addressable or a non-nil pointer.
func (p MemberPath) Set(v reflect.Value, x reflect.Value) bool {
	if p.IsZero() {
		return false
	}

	return set(v, p.members, x)
}

func set(v reflect.Value, members []Member, x reflect.Value) bool {
	m := members[0]
	if len(members) == 1 {
		return m.Set(v, x)
	}

	if ref, ok := m.Ref(v); ok {
		target, ok := alloc(ref)
		if !ok {
			return false
		}

		return set(target, members[1:], x)
	}

	// properties and unaddressable values: copy out, write, store back
	cur, ok := m.Get(v)
	if !ok {
		return false
	}

	tmp := reflect.New(cur.Type()).Elem()
	tmp.Set(cur)

	target, ok := alloc(tmp)
	if !ok || !set(target, members[1:], x) {
		return false
	}

	return m.CanWrite && m.Set(v, tmp)
}

// alloc walks through pointers in ref, allocating nil ones.
func alloc(ref reflect.Value) (reflect.Value, bool) {
	for ref.Kind() == reflect.Ptr {
		if ref.IsNil() {
			if !ref.CanSet() {
				return reflect.Value{}, false
			}
			ref.Set(reflect.New(ref.Type().Elem()))
		}
		ref = ref.Elem()
	}

	return ref, true
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}
