// Package pemarmor locates a labeled PEM block and, for the two labels
// that support OpenSSL's legacy DEK-Info encryption (RSA/EC PRIVATE KEY),
// decrypts it. It is the "PEM decoder" external collaborator of spec.md
// §6: callers get back one of {Ok, NoHeaderFooterPresent,
// PasswordRequired, PasswordMismatch} and never see a partially-decrypted
// buffer on anything but Ok.
package pemarmor

import (
	"crypto/x509"
	"encoding/pem"
)

// Outcome is the recognizer outcome taxonomy of spec.md §4.3.
type Outcome int

const (
	// NoHeaderFooterPresent means the buffer has no PEM block with the
	// requested label at all: try the next recognizer.
	NoHeaderFooterPresent Outcome = iota
	// Ok means a block with the requested label was found and, if
	// encrypted, successfully decrypted.
	Ok
	// PasswordRequired means the block is DEK-Info encrypted and the
	// caller supplied no password.
	PasswordRequired
	// PasswordMismatch means the block is DEK-Info encrypted and
	// decryption with the supplied password failed.
	PasswordMismatch
)

// Result carries the recognizer outcome and, on Ok, the decoded
// (decrypted, if necessary) DER bytes.
type Result struct {
	Outcome Outcome
	Bytes   []byte
}

// Decode looks for a PEM block labeled label in data. A hit commits: the
// dispatcher must not try a different recognizer once a label matches,
// even if decryption subsequently fails.
func Decode(label string, data, password []byte) Result {
	block, rest := pem.Decode(data)
	for block != nil && block.Type != label {
		block, rest = pem.Decode(rest)
	}
	if block == nil {
		return Result{Outcome: NoHeaderFooterPresent}
	}

	//nolint:staticcheck // IsEncryptedPEMBlock/DecryptPEMBlock are deprecated but are the only
	// implementation of OpenSSL's legacy DEK-Info PEM encryption in the standard library.
	if !x509.IsEncryptedPEMBlock(block) {
		return Result{Outcome: Ok, Bytes: block.Bytes}
	}
	if len(password) == 0 {
		return Result{Outcome: PasswordRequired}
	}
	der, err := x509.DecryptPEMBlock(block, password)
	if err != nil {
		return Result{Outcome: PasswordMismatch}
	}
	return Result{Outcome: Ok, Bytes: der}
}
