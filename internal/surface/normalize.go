// Package surface offers an opt-in Unicode normalization helper for callers
// that need it. The transform engine itself never normalizes (§9: surface
// text equality is byte-for-byte; normalization is a caller concern), so
// this package is deliberately outside the import graph of internal/transform.
package surface

import "golang.org/x/text/unicode/norm"

// NormalizeNFC rewrites s to Unicode Normalization Form C. Callers that
// accept surface text from untrusted input (a web form, a pasted string)
// should normalize before handing it to Transform, since two byte-distinct
// but canonically-equivalent strings are different candidates to the
// engine's dedup and pattern matching.
func NormalizeNFC(s string) string {
	return norm.NFC.String(s)
}

// IsNFC reports whether s is already in Normalization Form C.
func IsNFC(s string) bool {
	return norm.NFC.IsNormalString(s)
}
