// Package oid resolves the object identifiers this module cares about
// into small enums: PK algorithm, named curve, PBE scheme, PBES2 cipher,
// and PBKDF2 PRF. It is the external-collaborator boundary spec.md §6
// calls the "OID resolver" — a pure, read-only lookup table with no
// state of its own.
package oid

import "encoding/asn1"

// PKAlgorithm mirrors spec.md §3's pk_type_t.
type PKAlgorithm int

const (
	PKNone PKAlgorithm = iota
	PKRSA
	PKECKey
	PKECKeyDH
)

// CurveID names the named curves this module recognizes. ECParameters
// CHOICE is restricted to namedCurve (spec.md §4.2); implicitCurve and
// specifiedCurve never resolve to one of these.
type CurveID int

const (
	CurveNone CurveID = iota
	CurveP224
	CurveP256
	CurveP384
	CurveP521
	CurveSecp256k1
	CurveSM2P256V1
)

// PBEScheme identifies the password-based encryption scheme wrapping an
// EncryptedPrivateKeyInfo's ciphertext.
type PBEScheme int

const (
	PBENone PBEScheme = iota
	PBEPBES2
	PBEPKCS12SHA1RC4_128
	PBEPKCS12SHA1RC4_40
	PBEPKCS12SHA1DES3
	PBEPKCS12SHA1DES2
	PBEPKCS12SHA1RC2_128
	PBEPKCS12SHA1RC2_40
)

// CipherScheme identifies the block cipher named inside a PBES2
// encryptionScheme AlgorithmIdentifier.
type CipherScheme int

const (
	CipherNone CipherScheme = iota
	CipherAES128CBC
	CipherAES192CBC
	CipherAES256CBC
	CipherDESEDE3CBC
)

// PRF identifies the pseudo-random function a PBKDF2-params structure
// names, defaulting to HMAC-SHA1 per RFC 8018 when absent.
type PRF int

const (
	PRFNone PRF = iota
	PRFHMACSHA1
	PRFHMACSHA256
)

var (
	oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidECPublicKey   = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidECDH          = asn1.ObjectIdentifier{1, 3, 132, 1, 12}

	oidP224      = asn1.ObjectIdentifier{1, 3, 132, 0, 33}
	oidP256      = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidP384      = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidP521      = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
	oidSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
	oidSM2P256V1 = asn1.ObjectIdentifier{1, 2, 156, 10197, 1, 301}

	// OidPBKDF2 is exported: internal/pbe must confirm a PBES2
	// keyDerivationFunc names PBKDF2 specifically (no other KDF is
	// supported).
	OidPBKDF2 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 12}
	oidPBES2  = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 13}

	oidPKCS12PBEShaRC4_128 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1, 1}
	oidPKCS12PBEShaRC4_40  = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1, 2}
	oidPKCS12PBEShaDES3    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1, 3}
	oidPKCS12PBEShaDES2    = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1, 4}
	oidPKCS12PBEShaRC2_128 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1, 5}
	oidPKCS12PBEShaRC2_40  = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1, 6}

	oidAES128CBC  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}
	oidAES192CBC  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 22}
	oidAES256CBC  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}
	oidDESEDE3CBC = asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 7}

	oidHMACWithSHA1   = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 7}
	oidHMACWithSHA256 = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 9}
)

// ResolvePKAlgorithm maps an AlgorithmIdentifier.algorithm OID to a PK
// algorithm tag, returning PKNone for anything unrecognized.
func ResolvePKAlgorithm(o asn1.ObjectIdentifier) PKAlgorithm {
	switch {
	case o.Equal(oidRSAEncryption):
		return PKRSA
	case o.Equal(oidECPublicKey):
		return PKECKey
	case o.Equal(oidECDH):
		return PKECKeyDH
	default:
		return PKNone
	}
}

// ResolveNamedCurve maps an ECParameters namedCurve OID to a CurveID.
func ResolveNamedCurve(o asn1.ObjectIdentifier) CurveID {
	switch {
	case o.Equal(oidP224):
		return CurveP224
	case o.Equal(oidP256):
		return CurveP256
	case o.Equal(oidP384):
		return CurveP384
	case o.Equal(oidP521):
		return CurveP521
	case o.Equal(oidSecp256k1):
		return CurveSecp256k1
	case o.Equal(oidSM2P256V1):
		return CurveSM2P256V1
	default:
		return CurveNone
	}
}

// ResolvePBEScheme maps an EncryptedPrivateKeyInfo.encryptionAlgorithm OID
// to a PBE scheme.
func ResolvePBEScheme(o asn1.ObjectIdentifier) PBEScheme {
	switch {
	case o.Equal(oidPBES2):
		return PBEPBES2
	case o.Equal(oidPKCS12PBEShaRC4_128):
		return PBEPKCS12SHA1RC4_128
	case o.Equal(oidPKCS12PBEShaRC4_40):
		return PBEPKCS12SHA1RC4_40
	case o.Equal(oidPKCS12PBEShaDES3):
		return PBEPKCS12SHA1DES3
	case o.Equal(oidPKCS12PBEShaDES2):
		return PBEPKCS12SHA1DES2
	case o.Equal(oidPKCS12PBEShaRC2_128):
		return PBEPKCS12SHA1RC2_128
	case o.Equal(oidPKCS12PBEShaRC2_40):
		return PBEPKCS12SHA1RC2_40
	default:
		return PBENone
	}
}

// ResolveCipherScheme maps a PBES2 encryptionScheme OID to a cipher.
func ResolveCipherScheme(o asn1.ObjectIdentifier) CipherScheme {
	switch {
	case o.Equal(oidAES128CBC):
		return CipherAES128CBC
	case o.Equal(oidAES192CBC):
		return CipherAES192CBC
	case o.Equal(oidAES256CBC):
		return CipherAES256CBC
	case o.Equal(oidDESEDE3CBC):
		return CipherDESEDE3CBC
	default:
		return CipherNone
	}
}

// ResolvePRF maps a PBKDF2-params prf OID to a PRF, defaulting callers
// should apply PRFHMACSHA1 themselves when no prf field is present at all.
func ResolvePRF(o asn1.ObjectIdentifier) PRF {
	switch {
	case o.Equal(oidHMACWithSHA1):
		return PRFHMACSHA1
	case o.Equal(oidHMACWithSHA256):
		return PRFHMACSHA256
	default:
		return PRFNone
	}
}

// CipherKeyIVSize returns the key and IV sizes, in bytes, for scheme.
func CipherKeyIVSize(scheme CipherScheme) (keySize, ivSize int) {
	switch scheme {
	case CipherAES128CBC:
		return 16, 16
	case CipherAES192CBC:
		return 24, 16
	case CipherAES256CBC:
		return 32, 16
	case CipherDESEDE3CBC:
		return 24, 8
	default:
		return 0, 0
	}
}
