// Package coerce is the type coercion service used by compiled mappers.
//
// Convert is best effort. It tries, in order:
//  1. identity and assignability
//  2. primitive conversions allowed by the configured categories, remembering
//     type pairs that can never convert (negative cache)
//  3. a converter registered for the destination type
//  4. a converter registered for the source type
//  5. built-in fallbacks: pointer wrap/unwrap, Any() unboxing, encoding.Text(Un)Marshaler,
//     fmt.Stringer, and reflect conversions within one kind family
//
// A failed conversion is reported as ok=false, never as an error; callers decide
// whether that means "skip" or "use a default".
package coerce
