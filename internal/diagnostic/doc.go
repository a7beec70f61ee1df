// Package diagnostic provides structured errors and warnings for mapping
// configurations and descriptor files.
//
// Key capabilities:
//   - Unknown member reports with "did you mean" candidates
//   - Descriptor validation results (duplicate or empty field names)
//   - A single combined error for build-time failures
package diagnostic
