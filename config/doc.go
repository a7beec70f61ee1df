// Package config provides the name matching mapping configurations.
//
// Default returns a DefaultConfig that pairs destination members with source
// members of the same name and deep maps complex values. Its fluent methods add
// overrides, applied in this order of precedence:
//
//  1. ignored members (IgnoreMembers, the `mapper:"-"` tag, member filters)
//  2. member converters (ConvertMember)
//  3. pair converters (ConvertUsing)
//  4. null substitution (NullSubstitution)
//  5. name match and coercion
//
// Construction (ConstructBy) and post-processing (PostProcess) hooks are keyed by
// destination type and apply to nested values as well as to the root.
//
// A configuration's Name is derived from the calls that built it, so two
// configurations authored the same way share compiled mappers.
package config
