package pkparse

import "fmt"

// InvalidFormatError wraps a structural ASN.1 violation encountered while
// parsing a key structure (cursor-layer cause attached via Err).
type InvalidFormatError struct {
	Err error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("pkparse: invalid key format: %s", e.Err)
}
func (e *InvalidFormatError) Unwrap() error { return e.Err }

// InvalidPubkeyError wraps a structural violation specific to a public-key
// structure (SubjectPublicKeyInfo or RSAPublicKey).
type InvalidPubkeyError struct {
	Err error
}

func (e *InvalidPubkeyError) Error() string {
	return fmt.Sprintf("pkparse: invalid public key: %s", e.Err)
}
func (e *InvalidPubkeyError) Unwrap() error { return e.Err }

// InvalidAlgError wraps an AlgorithmIdentifier that is malformed, or RSA
// with non-NULL parameters, or EC with no parameters at all.
type InvalidAlgError struct {
	Err error
}

func (e *InvalidAlgError) Error() string {
	return fmt.Sprintf("pkparse: invalid algorithm identifier: %s", e.Err)
}
func (e *InvalidAlgError) Unwrap() error { return e.Err }

// InvalidVersionError wraps a PKCS#1/PKCS#8/SEC1 version field that falls
// outside the range this module supports.
type InvalidVersionError struct {
	Err error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("pkparse: unsupported structure version: %s", e.Err)
}
func (e *InvalidVersionError) Unwrap() error { return e.Err }

// UnknownPkAlgError is returned when an AlgorithmIdentifier's OID is not a
// supported PK algorithm.
type UnknownPkAlgError struct {
	Err error
}

func (e *UnknownPkAlgError) Error() string {
	return fmt.Sprintf("pkparse: unknown public key algorithm: %s", e.Err)
}
func (e *UnknownPkAlgError) Unwrap() error { return e.Err }

// UnknownNamedCurveError is returned when an ECParameters curve OID is not
// supported, or the ECParameters CHOICE used a form other than namedCurve.
type UnknownNamedCurveError struct {
	Err error
}

func (e *UnknownNamedCurveError) Error() string {
	return fmt.Sprintf("pkparse: unknown or unsupported named curve: %s", e.Err)
}
func (e *UnknownNamedCurveError) Unwrap() error { return e.Err }

// PasswordRequiredError is returned when the key material is encrypted and
// no password was supplied.
type PasswordRequiredError struct{}

func (e *PasswordRequiredError) Error() string { return "pkparse: password required" }

// PasswordMismatchError is returned when decryption with the supplied
// password produced detectably wrong plaintext.
type PasswordMismatchError struct{}

func (e *PasswordMismatchError) Error() string { return "pkparse: password mismatch" }

// FeatureUnavailableError is returned for an encryption scheme this module
// cannot decrypt: a recognized but unimplemented one (the PKCS#12 RC2
// variants) or an encryption OID it does not recognize at all.
type FeatureUnavailableError struct {
	Err error
}

func (e *FeatureUnavailableError) Error() string {
	return fmt.Sprintf("pkparse: feature unavailable: %s", e.Err)
}
func (e *FeatureUnavailableError) Unwrap() error { return e.Err }

// FileIOError wraps a failure reading a key file from disk.
type FileIOError struct {
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("pkparse: reading %q: %s", e.Path, e.Err)
}
func (e *FileIOError) Unwrap() error { return e.Err }

// BadInputDataError is returned when ciphertext length is structurally
// invalid for its cipher, or another guard condition fails before any
// ASN.1 parsing is attempted.
type BadInputDataError struct {
	Err error
}

func (e *BadInputDataError) Error() string {
	return fmt.Sprintf("pkparse: bad input data: %s", e.Err)
}
func (e *BadInputDataError) Unwrap() error { return e.Err }
