// Package pkparse parses RSA and elliptic-curve public and private key
// material: PKCS#1, SEC1, PKCS#8 (plain and password-encrypted), and
// SubjectPublicKeyInfo, in either PEM or DER framing.
//
// The format-dispatch engine (ParsePrivateKey, ParsePublicKey) tries PEM
// label recognizers in a fixed order, then falls back to DER shapes; see
// each function's doc comment for the exact order. Every exported error
// type except PasswordRequiredError and PasswordMismatchError, which carry
// no cause, keeps the underlying cause in its Err field and supports
// errors.Unwrap, so callers can errors.Is against the lower-level causes
// from the cursor, internal/rsakey, internal/eckey, internal/spki,
// internal/pkcs8, and internal/pbe packages if they need to.
package pkparse

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"

	"github.com/dromara/pkparse/cursor"
	"github.com/dromara/pkparse/internal/eckey"
	"github.com/dromara/pkparse/internal/oid"
	"github.com/dromara/pkparse/internal/pbe"
	"github.com/dromara/pkparse/internal/pemarmor"
	"github.com/dromara/pkparse/internal/pkcs8"
	"github.com/dromara/pkparse/internal/rsakey"
	"github.com/dromara/pkparse/internal/spki"
)

// Algorithm identifies which union arm of a Key is populated.
type Algorithm int

const (
	AlgorithmNone Algorithm = iota
	AlgorithmRSA
	AlgorithmEC
)

// Key is a parsed, validated key object. A Key returned from one of this
// package's entry points is always in the "populated" state: every field
// for its Algorithm is set and has passed the relevant validation. There
// is no exported way to construct a partially-populated Key — failed
// parses never return one.
type Key struct {
	alg       Algorithm
	curve     oid.CurveID
	rsaPublic *rsa.PublicKey
	rsaPriv   *rsa.PrivateKey
	ecPublic  *ecdsa.PublicKey
	ecPriv    *ecdsa.PrivateKey
}

// Algorithm reports which algorithm this key uses.
func (k *Key) Algorithm() Algorithm { return k.alg }

// IsPrivate reports whether private-key material was populated.
func (k *Key) IsPrivate() bool { return k.rsaPriv != nil || k.ecPriv != nil }

// CurveName returns the named curve's conventional short name
// (e.g. "secp256r1"), or "" for an RSA key.
func (k *Key) CurveName() string { return curveNames[k.curve] }

// RSAPublicKey returns the RSA public key, or nil if this is not an RSA
// key.
func (k *Key) RSAPublicKey() *rsa.PublicKey { return k.rsaPublic }

// RSAPrivateKey returns the RSA private key, or nil if this is not an
// RSA private key.
func (k *Key) RSAPrivateKey() *rsa.PrivateKey { return k.rsaPriv }

// ECPublicKey returns the EC public key, or nil if this is not an EC key.
func (k *Key) ECPublicKey() *ecdsa.PublicKey { return k.ecPublic }

// ECPrivateKey returns the EC private key, or nil if this is not an EC
// private key.
func (k *Key) ECPrivateKey() *ecdsa.PrivateKey { return k.ecPriv }

var curveNames = map[oid.CurveID]string{
	oid.CurveP224:      "secp224r1",
	oid.CurveP256:      "secp256r1",
	oid.CurveP384:      "secp384r1",
	oid.CurveP521:      "secp521r1",
	oid.CurveSecp256k1: "secp256k1",
	oid.CurveSM2P256V1: "sm2p256v1",
}

// pemLabel identifies one of §4.3's four private-key PEM recognizers.
type pemLabel struct {
	label       string
	legacyCrypt bool // accepts OpenSSL DEK-Info in-armour encryption
	encrypted   bool // is itself an EncryptedPrivateKeyInfo
}

var privateKeyLabels = []pemLabel{
	{label: "RSA PRIVATE KEY", legacyCrypt: true},
	{label: "EC PRIVATE KEY", legacyCrypt: true},
	{label: "PRIVATE KEY"},
	{label: "ENCRYPTED PRIVATE KEY", encrypted: true},
}

// ParsePrivateKey implements the format-dispatch engine of spec.md §4.3:
// PEM labels "RSA PRIVATE KEY", "EC PRIVATE KEY", "PRIVATE KEY", and
// "ENCRYPTED PRIVATE KEY" are tried in that order; a label match commits
// (any downstream error is returned as-is, no further recognizer is
// tried). If no label matches, DER fallbacks are tried in the order
// EncryptedPrivateKeyInfo, PrivateKeyInfo, PKCS#1 RSAPrivateKey, SEC1
// ECPrivateKey — except a PasswordMismatch or PasswordRequired from the
// encrypted-PKCS#8 fallback short-circuits the remaining attempts, since
// the input shape was unambiguous.
func ParsePrivateKey(keyBytes, password []byte) (*Key, error) {
	for _, pl := range privateKeyLabels {
		pw := password
		if !pl.legacyCrypt {
			pw = nil
		}
		res := pemarmor.Decode(pl.label, keyBytes, pw)
		switch res.Outcome {
		case pemarmor.NoHeaderFooterPresent:
			continue
		case pemarmor.PasswordRequired:
			return nil, &PasswordRequiredError{}
		case pemarmor.PasswordMismatch:
			return nil, &PasswordMismatchError{}
		}
		// pemarmor.Ok: commit to this recognizer.
		if pl.encrypted {
			return parseEncryptedPKCS8(res.Bytes, password)
		}
		switch pl.label {
		case "RSA PRIVATE KEY":
			return parsePKCS1RSAPrivate(res.Bytes)
		case "EC PRIVATE KEY":
			return parseSEC1ECPrivate(res.Bytes, oid.CurveNone)
		default:
			return parsePKCS8Private(res.Bytes)
		}
	}

	if k, err := parseEncryptedPKCS8(keyBytes, password); err == nil {
		return k, nil
	} else if errors.As(err, new(*PasswordMismatchError)) || errors.As(err, new(*PasswordRequiredError)) {
		return nil, err
	}
	if k, err := parsePKCS8Private(keyBytes); err == nil {
		return k, nil
	}
	if k, err := parsePKCS1RSAPrivate(keyBytes); err == nil {
		return k, nil
	}
	if k, err := parseSEC1ECPrivate(keyBytes, oid.CurveNone); err == nil {
		return k, nil
	}
	return nil, &InvalidFormatError{Err: errors.New("no recognized private key format")}
}

// ParsePublicKey implements spec.md §4.3's parse_public_key: the PEM
// label "PUBLIC KEY" is tried first; on a miss the raw bytes are parsed
// directly as a DER SubjectPublicKeyInfo.
func ParsePublicKey(keyBytes []byte) (*Key, error) {
	res := pemarmor.Decode("PUBLIC KEY", keyBytes, nil)
	der := keyBytes
	if res.Outcome == pemarmor.Ok {
		der = res.Bytes
	}
	return ParseSubjectPublicKeyInfo(cursor.New(der))
}

// ParseSubjectPublicKeyInfo parses a SubjectPublicKeyInfo directly off c,
// advancing c past it — the entry point spec.md §6 names parse_subpubkey,
// exposed so an enclosing X.509 certificate parser can share one cursor
// across the certificate and its embedded public key.
func ParseSubjectPublicKeyInfo(c *cursor.Cursor) (*Key, error) {
	res, err := spki.Parse(c)
	if err != nil {
		return nil, classifySPKIErr(err)
	}
	k := &Key{alg: AlgorithmRSA, curve: res.Curve, rsaPublic: res.RSA}
	if res.EC != nil {
		k.alg = AlgorithmEC
		k.ecPublic = res.EC
	}
	return k, nil
}

func parsePKCS1RSAPrivate(der []byte) (*Key, error) {
	priv, err := rsakey.ParsePrivateKey(cursor.New(der))
	if err != nil {
		return nil, classifyRSAErr(err)
	}
	return &Key{alg: AlgorithmRSA, rsaPriv: priv, rsaPublic: &priv.PublicKey}, nil
}

func parseSEC1ECPrivate(der []byte, presetCurve oid.CurveID) (*Key, error) {
	priv, curveID, err := eckey.ParsePrivateKey(cursor.New(der), presetCurve)
	if err != nil {
		return nil, classifyECErr(err)
	}
	return &Key{alg: AlgorithmEC, curve: curveID, ecPriv: priv, ecPublic: &priv.PublicKey}, nil
}

func parsePKCS8Private(der []byte) (*Key, error) {
	res, err := pkcs8.ParsePrivateKeyInfo(cursor.New(der))
	if err != nil {
		return nil, classifyPKCS8Err(err)
	}
	return keyFromPKCS8Result(res), nil
}

func parseEncryptedPKCS8(der, password []byte) (*Key, error) {
	res, err := pkcs8.ParseEncryptedPrivateKeyInfo(cursor.New(der), password)
	if err != nil {
		return nil, classifyPKCS8Err(err)
	}
	return keyFromPKCS8Result(res), nil
}

func keyFromPKCS8Result(res *pkcs8.Result) *Key {
	k := &Key{alg: AlgorithmRSA, curve: res.Curve, rsaPriv: res.RSA}
	if res.RSA != nil {
		k.rsaPublic = &res.RSA.PublicKey
	}
	if res.EC != nil {
		k.alg = AlgorithmEC
		k.ecPriv = res.EC
		k.ecPublic = &res.EC.PublicKey
	}
	return k
}

// classifyRSAErr maps internal/rsakey and cursor errors onto the exported
// taxonomy of spec.md §7.
func classifyRSAErr(err error) error {
	switch {
	case errors.Is(err, rsakey.ErrInvalidVersion):
		return &InvalidVersionError{Err: err}
	case errors.Is(err, rsakey.ErrInvalidPubkey):
		return &InvalidPubkeyError{Err: err}
	default:
		return &InvalidFormatError{Err: err}
	}
}

func classifyECErr(err error) error {
	switch {
	case errors.Is(err, eckey.ErrUnknownNamedCurve):
		return &UnknownNamedCurveError{Err: err}
	case errors.Is(err, eckey.ErrInvalidVersion):
		return &InvalidVersionError{Err: err}
	case errors.Is(err, eckey.ErrInvalidPubkey):
		return &InvalidPubkeyError{Err: err}
	default:
		return &InvalidFormatError{Err: err}
	}
}

func classifySPKIErr(err error) error {
	switch {
	case errors.Is(err, spki.ErrUnknownPkAlg):
		return &UnknownPkAlgError{Err: err}
	case errors.Is(err, spki.ErrInvalidAlg):
		return &InvalidAlgError{Err: err}
	case errors.Is(err, eckey.ErrUnknownNamedCurve):
		return &UnknownNamedCurveError{Err: err}
	default:
		return &InvalidPubkeyError{Err: err}
	}
}

func classifyPKCS8Err(err error) error {
	switch {
	case errors.Is(err, pkcs8.ErrInvalidVersion):
		return &InvalidVersionError{Err: err}
	case errors.Is(err, pkcs8.ErrUnknownPkAlg):
		return &UnknownPkAlgError{Err: err}
	case errors.Is(err, pkcs8.ErrInvalidAlg):
		return &InvalidAlgError{Err: err}
	case errors.Is(err, pkcs8.ErrUnknownScheme), errors.Is(err, pkcs8.ErrFeatureUnavailable):
		return &FeatureUnavailableError{Err: err}
	case errors.Is(err, pkcs8.ErrPasswordRequired):
		return &PasswordRequiredError{}
	case errors.Is(err, pkcs8.ErrPasswordMismatch):
		return &PasswordMismatchError{}
	case errors.Is(err, eckey.ErrUnknownNamedCurve):
		return &UnknownNamedCurveError{Err: err}
	case errors.Is(err, pbe.ErrBadInputData):
		return &BadInputDataError{Err: err}
	default:
		return &InvalidFormatError{Err: err}
	}
}
