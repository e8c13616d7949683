// Package rsakey parses PKCS#1 RSAPublicKey and RSAPrivateKey structures
// off a cursor.Cursor and validates the result, grounding spec.md §4.2's
// rsa_check_pubkey/rsa_check_privkey invariants in crypto/rsa's own
// Validate method — the "external MPI substrate" spec.md names is, for
// RSA, the standard library's bignum-backed rsa.PrivateKey itself.
package rsakey

import (
	"crypto/rsa"
	"errors"
	"math/big"

	"github.com/dromara/pkparse/cursor"
)

// ErrInvalidVersion is returned when an RSAPrivateKey's version field is
// not the only value this module supports (0, i.e. two-prime).
var ErrInvalidVersion = errors.New("rsakey: unsupported version")

// ErrInvalidPubkey is returned when a parsed RSAPublicKey fails
// validation (non-positive modulus, even or too-small exponent, ...).
var ErrInvalidPubkey = errors.New("rsakey: public key failed validation")

const minExponent = 2

// ParsePublicKey parses an RSAPublicKey SEQUENCE { modulus INTEGER,
// publicExponent INTEGER }, which must fill c exactly, and validates it.
func ParsePublicKey(c *cursor.Cursor) (*rsa.PublicKey, error) {
	seq, err := c.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, err
	}
	n, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	e, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	if !seq.Done() || !c.Done() {
		return nil, cursor.ErrLengthMismatch
	}
	pub := &rsa.PublicKey{N: n, E: int(e.Int64())}
	if err := checkPubkey(pub); err != nil {
		return nil, err
	}
	return pub, nil
}

// ParsePrivateKey parses a PKCS#1 RSAPrivateKey SEQUENCE (two-prime form
// only; a trailing otherPrimeInfos is rejected as a length mismatch, not
// silently ignored) and validates it.
func ParsePrivateKey(c *cursor.Cursor) (*rsa.PrivateKey, error) {
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
	n, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	e, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	d, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	p, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	q, err := seq.GetMPI()
	if err != nil {
		return nil, err
	}
	// exponent1, exponent2, coefficient (dP, dQ, qInv) are present in the
	// DER but crypto/rsa.Precompute derives them itself; read and
	// discard so the trailing-bytes check below is meaningful.
	if _, err := seq.GetMPI(); err != nil {
		return nil, err
	}
	if _, err := seq.GetMPI(); err != nil {
		return nil, err
	}
	if _, err := seq.GetMPI(); err != nil {
		return nil, err
	}
	if !seq.Done() {
		// otherPrimeInfos (multi-prime RSA) is a non-goal; its presence
		// surfaces as trailing bytes here.
		return nil, cursor.ErrLengthMismatch
	}

	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	priv.Precompute()
	if err := priv.Validate(); err != nil {
		return nil, err
	}
	return priv, nil
}

func checkPubkey(pub *rsa.PublicKey) error {
	if pub.N == nil || pub.N.Sign() <= 0 {
		return ErrInvalidPubkey
	}
	if pub.E < minExponent || pub.E%2 == 0 {
		return ErrInvalidPubkey
	}
	if pub.N.BitLen() < 128 {
		return ErrInvalidPubkey
	}
	return nil
}
