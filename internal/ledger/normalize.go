package ledger

import "golang.org/x/text/unicode/norm"

// Normalize applies NFC normalization to a text field.
//
// Applied once at the mutation boundary so that visually identical strings
// compare equal in storage and in rendered output, regardless of how the
// caller composed them.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
