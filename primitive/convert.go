package primitive

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/antonsamarsky/emitmapper-tools/utils"
)

var (
	ErrNotAllowed = errors.New("conversion is not allowed")
	ErrOutOfRange = errors.New("value is out of range")
	ErrSyntax     = errors.New("invalid textual representation")
)

var (
	stringerType        = reflect.TypeFor[fmt.Stringer]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Convert converts v into a fresh value of exactly the dst type, using only the
// conversions that belong to the allowed categories.
//
// ErrNotAllowed means the pair itself is not convertible and the result will not
// change for other values of the same types. ErrOutOfRange and ErrSyntax depend on
// the concrete value.
func Convert(v reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !v.IsValid() || dst == nil {
		return reflect.Value{}, errors.Wrap(ErrNotAllowed, "invalid source value")
	}

	src := v.Type()
	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if pair.From == 0 || pair.To == 0 || !Allowed(pair, allowed) {
		return reflect.Value{}, errors.Wrapf(ErrNotAllowed, "%s to %s", src, dst)
	}

	out := reflect.New(dst).Elem()

	var err error
	switch {
	case pair.From == KindPrimitiveEnum || pair.To == KindPrimitiveEnum:
		err = convertEnum(v, out, pair)
	case pair.From == KindString:
		err = parseText(v.String(), out, pair.To)
	case pair.To == KindString:
		out.SetString(formatText(v, pair.From))
	case pair.From == KindTime || pair.To == KindTime:
		err = convertTime(v, out)
	case pair.From == KindDuration || pair.To == KindDuration:
		err = convertDuration(v, out)
	default:
		err = setNumber(out, numberOf(v))
	}

	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "%s to %s", src, dst)
	}

	return out, nil
}

type number struct {
	kind reflect.Kind // one of reflect.Int64, reflect.Uint64, reflect.Float64
	i    int64
	u    uint64
	f    float64
}

func (n number) isZero() bool {
	return n.i == 0 && n.u == 0 && n.f == 0
}

func numberOf(v reflect.Value) number {
	switch v.Kind() {
	default:
		return number{kind: reflect.Int64}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: v.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number{kind: reflect.Uint64, u: v.Uint()}
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: v.Float()}
	case reflect.Bool:
		if v.Bool() {
			return number{kind: reflect.Int64, i: 1}
		}
		return number{kind: reflect.Int64}
	}
}

func setNumber(out reflect.Value, n number) error {
	switch out.Kind() {
	default:
		return ErrNotAllowed

	case reflect.Bool:
		out.SetBool(!n.isZero())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch n.kind {
		case reflect.Int64:
			i = n.i
		case reflect.Uint64:
			if n.u > math.MaxInt64 {
				return ErrOutOfRange
			}
			i = int64(n.u)
		case reflect.Float64:
			if math.IsNaN(n.f) || n.f < math.MinInt64 || n.f >= math.MaxInt64 {
				return ErrOutOfRange
			}
			i = int64(n.f)
		}

		if out.OverflowInt(i) {
			return ErrOutOfRange
		}
		out.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var u uint64
		switch n.kind {
		case reflect.Int64:
			if n.i < 0 {
				return ErrOutOfRange
			}
			u = uint64(n.i)
		case reflect.Uint64:
			u = n.u
		case reflect.Float64:
			if math.IsNaN(n.f) || !utils.IsInRange(0, n.f, math.MaxUint64) {
				return ErrOutOfRange
			}
			u = uint64(n.f)
		}

		if out.OverflowUint(u) {
			return ErrOutOfRange
		}
		out.SetUint(u)

	case reflect.Float32, reflect.Float64:
		var f float64
		switch n.kind {
		case reflect.Int64:
			f = float64(n.i)
		case reflect.Uint64:
			f = float64(n.u)
		case reflect.Float64:
			f = n.f
		}

		if out.OverflowFloat(f) {
			return ErrOutOfRange
		}
		out.SetFloat(f)
	}

	return nil
}

func parseText(s string, out reflect.Value, to KindEnum) error {
	s = strings.TrimSpace(s)

	switch {
	case to.IsSigned():
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return textError(err)
		}
		return setNumber(out, number{kind: reflect.Int64, i: i})

	case to.IsUnsigned():
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return textError(err)
		}
		return setNumber(out, number{kind: reflect.Uint64, u: u})

	case to.IsFloat():
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return textError(err)
		}
		return setNumber(out, number{kind: reflect.Float64, f: f})
	}

	switch to {
	default:
		return ErrNotAllowed

	case KindBool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		out.SetBool(b)

	case KindTime:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return errors.Wrapf(ErrSyntax, "%v", err)
		}
		out.Set(reflect.ValueOf(t))

	case KindDuration:
		d, err := time.ParseDuration(s)
		if err != nil {
			return errors.Wrapf(ErrSyntax, "%v", err)
		}
		out.SetInt(int64(d))

	case KindUUID:
		id, err := uuid.Parse(s)
		if err != nil {
			return errors.Wrapf(ErrSyntax, "%v", err)
		}
		out.Set(reflect.ValueOf(id))
	}

	return nil
}

func textError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return errors.Wrapf(ErrOutOfRange, "%v", err)
	}

	return errors.Wrapf(ErrSyntax, "%v", err)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, errors.Wrapf(ErrSyntax, "%q is not a boolean", s)
	}
}

func formatText(v reflect.Value, from KindEnum) string {
	switch {
	case from.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case from.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	case from.IsFloat():
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())
	}

	switch from {
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindTime:
		return v.Interface().(time.Time).Format(time.RFC3339Nano)
	case KindDuration:
		return time.Duration(v.Int()).String()
	case KindUUID:
		return v.Interface().(uuid.UUID).String()
	default:
		return v.String()
	}
}

func convertTime(v, out reflect.Value) error {
	if t, ok := v.Interface().(time.Time); ok {
		return setNumber(out, number{kind: reflect.Int64, i: t.Unix()})
	}

	var sec int64
	if err := setNumber(reflect.ValueOf(&sec).Elem(), numberOf(v)); err != nil {
		return err
	}

	out.Set(reflect.ValueOf(time.Unix(sec, 0).UTC()))

	return nil
}

func convertDuration(v, out reflect.Value) error {
	if v.Type() == durationType {
		d := time.Duration(v.Int())
		if out.Kind() == reflect.Float32 || out.Kind() == reflect.Float64 {
			return setNumber(out, number{kind: reflect.Float64, f: d.Seconds()})
		}

		return setNumber(out, number{kind: reflect.Int64, i: int64(d)})
	}

	n := numberOf(v)
	if n.kind == reflect.Float64 {
		seconds := n.f * float64(time.Second)
		if math.IsNaN(seconds) || seconds < math.MinInt64 || seconds >= math.MaxInt64 {
			return ErrOutOfRange
		}

		out.SetInt(int64(seconds))

		return nil
	}

	return setNumber(out, n)
}

func convertEnum(v, out reflect.Value, pair ConversionPair) error {
	switch {
	case pair.To == KindString:
		out.SetString(enumName(v))
		return nil

	case pair.From == KindString:
		return parseEnum(v.String(), out)

	case pair.From == KindPrimitiveEnum && pair.To == KindPrimitiveEnum:
		// by name first, when both sides can speak it
		if v.Type().Implements(stringerType) && reflect.PointerTo(out.Type()).Implements(textUnmarshalerType) {
			if err := parseEnum(enumName(v), out); err == nil {
				return nil
			}
		}

		if isText(v.Kind()) != isText(out.Kind()) {
			return ErrNotAllowed
		}

		if isText(v.Kind()) {
			out.SetString(v.String())
			return nil
		}

		return setNumber(out, numberOf(v))

	default:
		if isText(v.Kind()) || isText(out.Kind()) {
			return ErrNotAllowed
		}

		return setNumber(out, numberOf(v))
	}
}

func enumName(v reflect.Value) string {
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String()
	}

	return formatText(v, Underlying(v.Type()))
}

func parseEnum(s string, out reflect.Value) error {
	if ptr := out.Addr(); ptr.Type().Implements(textUnmarshalerType) {
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return errors.Wrapf(ErrSyntax, "%v", err)
		}

		return nil
	}

	if isText(out.Kind()) {
		out.SetString(s)
		return nil
	}

	return parseText(s, out, Underlying(out.Type()))
}

func isText(kind reflect.Kind) bool {
	return kind == reflect.String
}
