package coerce

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// TypeConverter converts values to and from the type it is registered for.
type TypeConverter interface {
	// Type is the type the converter is registered for.
	Type() reflect.Type
	// CanConvertFrom reports whether values of src can become values of Type.
	CanConvertFrom(src reflect.Type) bool
	// ConvertFrom converts v into a value of Type.
	ConvertFrom(v reflect.Value) (reflect.Value, error)
	// CanConvertTo reports whether values of Type can become values of dst.
	CanConvertTo(dst reflect.Type) bool
	// ConvertTo converts v, a value of Type, into a value of dst.
	ConvertTo(v reflect.Value, dst reflect.Type) (reflect.Value, error)
}

var (
	bytesType = reflect.TypeFor[[]byte]()
	uuidType  = reflect.TypeFor[uuid.UUID]()
)

// UUIDBytes converts uuid.UUID to and from its 16-byte binary form.
type UUIDBytes struct{}

func (UUIDBytes) Type() reflect.Type { return uuidType }

func (UUIDBytes) CanConvertFrom(src reflect.Type) bool { return src == bytesType }

func (UUIDBytes) ConvertFrom(v reflect.Value) (reflect.Value, error) {
	id, err := uuid.FromBytes(v.Bytes())
	if err != nil {
		return reflect.Value{}, errors.Wrap(err, "uuid from bytes")
	}

	return reflect.ValueOf(id), nil
}

func (UUIDBytes) CanConvertTo(dst reflect.Type) bool { return dst == bytesType }

func (UUIDBytes) ConvertTo(v reflect.Value, _ reflect.Type) (reflect.Value, error) {
	id := v.Interface().(uuid.UUID)
	b := make([]byte, len(id))
	copy(b, id[:])

	return reflect.ValueOf(b), nil
}
