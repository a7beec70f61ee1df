// Package match provides member name matching for mapping configurations.
//
// Key functions:
//   - Matcher: named predicates deciding whether a source member feeds a destination member
//   - LongestPrefix: the tie-break used by flattening (longest matching name wins)
//   - NormalizeIdent: normalizes identifiers so that order_id and OrderID compare equal
//   - Suggest: Levenshtein-ranked "did you mean" candidates for configuration errors
//   - ScoreTypeCompatibility: classifies a source/destination type pair
package match
