package table

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/antonsamarsky/emitmapper-tools/internal/common"
)

// Kind is the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindUUID
	KindTime
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindUUID:
		return "uuid"
	case KindTime:
		return "time"
	case KindDuration:
		return "duration"
	default:
		return common.UnknownStr
	}
}

// Value is a field value: null, string, int64, float64, bool, uuid.UUID,
// time.Time or time.Duration. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	id   uuid.UUID
	ts   time.Time
}

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Int(i int64) Value { return Value{kind: KindInt, num: i} }
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }
func UUID(id uuid.UUID) Value { return Value{kind: KindUUID, id: id} }
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }
func Duration(d time.Duration) Value { return Value{kind: KindDuration, num: int64(d)} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	valueType    = reflect.TypeFor[Value]()
)

// Of boxes x into the matching variant. Pointers are followed and nil becomes
// null. Named types are boxed by their underlying kind. It returns false for
// values with no variant, such as structs, slices and unsigned integers that do
// not fit an int64.
func Of(x any) (Value, bool) {
	switch x := x.(type) {
	case nil:
		return Null(), true
	case Value:
		return x, true
	case string:
		return String(x), true
	case int:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case float64:
		return Float(x), true
	case bool:
		return Bool(x), true
	case uuid.UUID:
		return UUID(x), true
	case time.Time:
		return Time(x), true
	case time.Duration:
		return Duration(x), true
	}

	return ofValue(reflect.ValueOf(x))
}

func ofValue(v reflect.Value) (Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Null(), true
		}
		v = v.Elem()
	}

	switch v.Type() {
	case valueType, timeType, durationType, uuidType:
		return Of(v.Interface())
	}

	switch v.Kind() {
	case reflect.String:
		return String(v.String()), true
	case reflect.Bool:
		return Bool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return Value{}, false
		}

		return Int(int64(v.Uint())), true
	case reflect.Float32, reflect.Float64:
		return Float(v.Float()), true
	default:
		return Value{}, false
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Any unboxes v into its Go value; null yields nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.num != 0
	case KindUUID:
		return v.id
	case KindTime:
		return v.ts
	case KindDuration:
		return time.Duration(v.num)
	default:
		return nil
	}
}

// Equal compares kinds and values. Times are compared with time.Time.Equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	if v.kind == KindTime {
		return v.ts.Equal(o.ts)
	}

	return v.Any() == o.Any()
}

// String formats v for display; null renders as "null".
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.str)
	case KindTime:
		return v.ts.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v.Any())
	}
}
