package mapping

import (
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrInvalidDescriptor is returned for malformed field tags and descriptor entries.
var ErrInvalidDescriptor = errors.New("invalid field descriptor")

// FieldDescriptor binds a member to one logical field name. Type is the declared
// field type; it defaults to the member type.
type FieldDescriptor struct {
	Name string
	Type reflect.Type
}

// MemberDescriptor lists the field descriptors of one member.
type MemberDescriptor struct {
	Member Member
	Fields []FieldDescriptor
}

// Names returns the logical field names in declaration order.
func (d MemberDescriptor) Names() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}

	return names
}

// builtinFieldTypes are the type names accepted in tags and descriptor files.
var builtinFieldTypes = map[string]reflect.Type{
	"string":        reflect.TypeFor[string](),
	"bool":          reflect.TypeFor[bool](),
	"int":           reflect.TypeFor[int](),
	"int8":          reflect.TypeFor[int8](),
	"int16":         reflect.TypeFor[int16](),
	"int32":         reflect.TypeFor[int32](),
	"int64":         reflect.TypeFor[int64](),
	"uint":          reflect.TypeFor[uint](),
	"uint8":         reflect.TypeFor[uint8](),
	"uint16":        reflect.TypeFor[uint16](),
	"uint32":        reflect.TypeFor[uint32](),
	"uint64":        reflect.TypeFor[uint64](),
	"float32":       reflect.TypeFor[float32](),
	"float64":       reflect.TypeFor[float64](),
	"byte":          reflect.TypeFor[byte](),
	"bytes":         reflect.TypeFor[[]byte](),
	"time":          reflect.TypeFor[time.Time](),
	"time.Time":     reflect.TypeFor[time.Time](),
	"duration":      reflect.TypeFor[time.Duration](),
	"time.Duration": reflect.TypeFor[time.Duration](),
	"uuid":          reflect.TypeFor[uuid.UUID](),
	"uuid.UUID":     reflect.TypeFor[uuid.UUID](),
}

// TagField is one entry of a field tag before its type name is resolved.
type TagField struct {
	Name string
	Type string
}

// ParseTag splits a field tag value into its entries.
// Entries are separated by ';' and each may carry a ",type=<name>" option.
func ParseTag(tag string) ([]TagField, error) {
	var fields []TagField

	for entry := range strings.SplitSeq(tag, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, opts, _ := strings.Cut(entry, ",")

		f := TagField{Name: strings.TrimSpace(name)}
		if f.Name == "" {
			return nil, errors.Wrapf(ErrInvalidDescriptor, "tag %q: empty field name", tag)
		}

		for opt := range strings.SplitSeq(opts, ",") {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				continue
			}

			key, value, ok := strings.Cut(opt, "=")
			if !ok || key != "type" || value == "" {
				return nil, errors.Wrapf(ErrInvalidDescriptor, "tag %q: unknown option %q", tag, opt)
			}

			f.Type = value
		}

		fields = append(fields, f)
	}

	return fields, nil
}
