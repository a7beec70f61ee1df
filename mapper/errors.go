package mapper

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/common"
)

var (
	// ErrNilSource is returned when the value to map is nil.
	ErrNilSource = errors.New("source is nil")
	// ErrNilDestination is returned by MapInto for a nil destination.
	ErrNilDestination = errors.New("destination is nil")
	// ErrMaxDepth is returned when nesting exceeds options.Options.MaxDepth.
	ErrMaxDepth = errors.New("maximum mapping depth exceeded")
	// ErrConflictingRegistration is returned when a type pair already has another configuration.
	ErrConflictingRegistration = errors.New("conflicting configuration registration")
	// ErrTypeMismatch is returned when a value does not have the type a mapper was built for.
	ErrTypeMismatch = errors.New("value type does not match mapper")
)

// MappingError reports a failure while writing one destination member.
type MappingError struct {
	SrcType reflect.Type
	DstType reflect.Type
	Member  string
	Err     error
}

func (e *MappingError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("mapping %s, member %s: %v", common.PairName(e.SrcType, e.DstType), e.Member, e.Err)
	}

	return fmt.Sprintf("mapping %s: %v", common.PairName(e.SrcType, e.DstType), e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// memberError wraps err unless it already carries member information, so the
// innermost member is reported.
func memberError(src, dst reflect.Type, member string, err error) error {
	var me *MappingError
	if errors.As(err, &me) {
		return err
	}

	return &MappingError{SrcType: src, DstType: dst, Member: member, Err: err}
}
