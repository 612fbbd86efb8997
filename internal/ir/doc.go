// Package ir provides the canonical value representation for dtimer.
//
// Golden trace snapshots and content-addressed case IDs are both computed
// over canonical JSON, so two runs that observe the same thing produce
// byte-identical output. This package contains value types and encoding only;
// it imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - frequencies, delays and cycle counts are integers
//   - Values above MaxInt64 (large cycle counts) are encoded as decimal strings
//   - Object keys are emitted in RFC 8785 order
//   - All JSON keys use snake_case
package ir
