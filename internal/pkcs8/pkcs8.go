// Package pkcs8 parses PKCS#8 PrivateKeyInfo and EncryptedPrivateKeyInfo
// (RFC 5208 / RFC 5958), dispatching the encrypted form's ciphertext to
// internal/pbe and the resulting (or already-plaintext) PrivateKeyInfo's
// inner key octets to internal/rsakey or internal/eckey.
package pkcs8

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/dromara/pkparse/cursor"
	"github.com/dromara/pkparse/internal/eckey"
	"github.com/dromara/pkparse/internal/oid"
	"github.com/dromara/pkparse/internal/pbe"
	"github.com/dromara/pkparse/internal/rsakey"
)

var (
	// ErrInvalidVersion is returned for a PrivateKeyInfo version other
	// than 0.
	ErrInvalidVersion = errors.New("pkcs8: unsupported version")
	// ErrUnknownPkAlg is returned when the AlgorithmIdentifier's OID
	// isn't a recognized PK algorithm.
	ErrUnknownPkAlg = errors.New("pkcs8: unknown PK algorithm")
	// ErrInvalidAlg is returned when the privateKeyAlgorithm
	// AlgorithmIdentifier is malformed, an RSA one carries non-NULL
	// parameters, or an EC one carries none.
	ErrInvalidAlg = errors.New("pkcs8: invalid AlgorithmIdentifier parameters")
	// ErrUnknownScheme is returned when EncryptedPrivateKeyInfo names an
	// encryptionAlgorithm OID this module doesn't resolve at all.
	ErrUnknownScheme = errors.New("pkcs8: unknown encryption scheme")
	// ErrFeatureUnavailable is returned for a recognized but unimplemented
	// PBE scheme (the PKCS#12 RC2 variants: no library in the reference
	// pack or the standard library implements RC2).
	ErrFeatureUnavailable = errors.New("pkcs8: recognized but unsupported encryption scheme")

	// ErrPasswordRequired and ErrPasswordMismatch re-export the
	// internal/pbe sentinels so callers one layer up (the root pkparse
	// package) only need to know about this package's error set.
	ErrPasswordRequired = pbe.ErrPasswordRequired
	ErrPasswordMismatch = pbe.ErrPasswordMismatch
)

// Result is the decoded private key plus which union arm is populated,
// mirroring internal/spki.Result.
type Result struct {
	Alg   oid.PKAlgorithm
	Curve oid.CurveID
	RSA   *rsa.PrivateKey
	EC    *ecdsa.PrivateKey
}

// ParsePrivateKeyInfo parses an unencrypted PrivateKeyInfo SEQUENCE
// { version INTEGER, privateKeyAlgorithm AlgorithmIdentifier,
// privateKey OCTET STRING, attributes [0] IMPLICIT Attributes OPTIONAL }.
func ParsePrivateKeyInfo(c *cursor.Cursor) (*Result, error) {
	seq, err := c.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, err
	}
	version, err := seq.GetInt()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, ErrInvalidVersion
	}
	algOID, params, err := seq.GetAlg()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAlg, err)
	}
	pkAlg := oid.ResolvePKAlgorithm(algOID)
	if pkAlg == oid.PKNone {
		return nil, ErrUnknownPkAlg
	}
	keyBytes, err := seq.GetOctetString()
	if err != nil {
		return nil, err
	}
	// attributes [0] IMPLICIT, if present, is left unread, and nothing
	// after privateKey in the SEQUENCE is checked: this module has no use
	// for PKCS#8 attributes and RFC 5958 marks them optional, not
	// forbidden.

	switch pkAlg {
	case oid.PKRSA:
		if params != nil && !params.IsNull() {
			return nil, ErrInvalidAlg
		}
		priv, err := rsakey.ParsePrivateKey(cursor.New(keyBytes))
		if err != nil {
			return nil, err
		}
		return &Result{Alg: pkAlg, RSA: priv}, nil
	case oid.PKECKey, oid.PKECKeyDH:
		if params == nil {
			return nil, ErrInvalidAlg
		}
		presetCurve, err := eckey.ParseNamedCurve(params)
		if err != nil {
			return nil, err
		}
		priv, curveID, err := eckey.ParsePrivateKey(cursor.New(keyBytes), presetCurve)
		if err != nil {
			return nil, err
		}
		return &Result{Alg: pkAlg, Curve: curveID, EC: priv}, nil
	default:
		return nil, ErrUnknownPkAlg
	}
}

// ParseEncryptedPrivateKeyInfo parses EncryptedPrivateKeyInfo SEQUENCE
// { encryptionAlgorithm AlgorithmIdentifier, encryptedData OCTET STRING },
// decrypts encryptedData with password, and re-parses the plaintext as a
// PrivateKeyInfo.
func ParseEncryptedPrivateKeyInfo(c *cursor.Cursor, password []byte) (*Result, error) {
	seq, err := c.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, err
	}
	schemeOID, params, err := seq.GetAlg()
	if err != nil {
		return nil, err
	}
	ciphertext, err := seq.GetOctetString()
	if err != nil {
		return nil, err
	}

	scheme := oid.ResolvePBEScheme(schemeOID)

	var plain []byte
	switch scheme {
	case oid.PBEPBES2:
		plain, err = pbe.DecryptPBES2(params, password, ciphertext)
	case oid.PBEPKCS12SHA1RC4_128, oid.PBEPKCS12SHA1RC4_40:
		plain, err = pbe.DecryptPKCS12RC4(scheme, params, password, ciphertext)
		if err == nil && (len(plain) == 0 || plain[0] != 0x30) {
			// RC4 has no padding or MAC to detect a wrong password; the
			// plaintext must still start a DER SEQUENCE (the outer
			// PrivateKeyInfo) or the password was wrong.
			err = pbe.ErrPasswordMismatch
		}
	case oid.PBEPKCS12SHA1DES3, oid.PBEPKCS12SHA1DES2:
		plain, err = pbe.DecryptPKCS12(scheme, params, password, ciphertext)
	case oid.PBEPKCS12SHA1RC2_128, oid.PBEPKCS12SHA1RC2_40:
		return nil, ErrFeatureUnavailable
	case oid.PBENone:
		return nil, ErrUnknownScheme
	default:
		return nil, ErrUnknownScheme
	}
	if err != nil {
		return nil, err
	}

	return ParsePrivateKeyInfo(cursor.New(plain))
}
