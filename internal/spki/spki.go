// Package spki parses a SubjectPublicKeyInfo (RFC 5280 §4.1), the X.509
// wrapper used for both RSA and EC public keys, and is the implementation
// behind the module's ParseSubjectPublicKeyInfo/ParsePublicKey entry
// points.
package spki

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/dromara/pkparse/cursor"
	"github.com/dromara/pkparse/internal/eckey"
	"github.com/dromara/pkparse/internal/oid"
	"github.com/dromara/pkparse/internal/rsakey"
)

// ErrUnknownPkAlg is returned when the AlgorithmIdentifier's OID isn't a
// recognized PK algorithm.
var ErrUnknownPkAlg = errors.New("spki: unknown PK algorithm")

// ErrInvalidAlg is returned when the AlgorithmIdentifier is malformed, an
// RSA one carries parameters other than absent-or-NULL, or an EC one
// carries no parameters at all.
var ErrInvalidAlg = errors.New("spki: invalid AlgorithmIdentifier parameters")

// Result is the decoded public key plus which union arm is populated.
type Result struct {
	Alg   oid.PKAlgorithm
	Curve oid.CurveID
	RSA   *rsa.PublicKey
	EC    *ecdsa.PublicKey
}

// Parse reads and advances a SubjectPublicKeyInfo SEQUENCE off c,
// leaving c positioned immediately after it — the behavior spec.md §6
// calls out as needed by an enclosing X.509 certificate parser.
func Parse(c *cursor.Cursor) (*Result, error) {
	seq, err := c.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, err
	}
	algOID, params, err := seq.GetAlg()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAlg, err)
	}
	pkAlg := oid.ResolvePKAlgorithm(algOID)
	if pkAlg == oid.PKNone {
		return nil, ErrUnknownPkAlg
	}
	bitBytes, err := seq.GetBitStringNull()
	if err != nil {
		return nil, err
	}
	if !seq.Done() {
		return nil, cursor.ErrLengthMismatch
	}

	switch pkAlg {
	case oid.PKRSA:
		if params != nil && !params.IsNull() {
			return nil, ErrInvalidAlg
		}
		pub, err := rsakey.ParsePublicKey(cursor.New(bitBytes))
		if err != nil {
			return nil, err
		}
		return &Result{Alg: pkAlg, RSA: pub}, nil
	case oid.PKECKey, oid.PKECKeyDH:
		if params == nil {
			return nil, ErrInvalidAlg
		}
		curveID, err := eckey.ParseNamedCurve(params)
		if err != nil {
			return nil, err
		}
		pub, err := eckey.ParsePublicPoint(curveID, bitBytes)
		if err != nil {
			return nil, err
		}
		return &Result{Alg: pkAlg, Curve: curveID, EC: pub}, nil
	default:
		return nil, ErrUnknownPkAlg
	}
}
