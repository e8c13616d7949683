// Package eckey parses ECParameters, SEC1 ECPrivateKey, and bare EC
// public-key points off a cursor.Cursor, validating the result against
// the curve's group. Point decode and scalar multiplication are
// delegated to crypto/elliptic for NIST curves, github.com/btcsuite/btcd's
// btcec for secp256k1, and github.com/emmansun/gmsm's sm2 package for
// sm2p256v1 — the "elliptic-curve primitives" collaborator spec.md §1
// explicitly puts out of this module's scope.
package eckey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/emmansun/gmsm/sm2"

	"github.com/dromara/pkparse/cursor"
	"github.com/dromara/pkparse/internal/oid"
)

var (
	// ErrUnknownNamedCurve is returned for any ECParameters CHOICE that
	// isn't a recognized namedCurve OID — including the implicitCurve
	// and specifiedCurve alternatives, which this module never accepts.
	ErrUnknownNamedCurve = errors.New("eckey: unknown or unsupported named curve")
	// ErrCurveMismatch is returned when an ECPrivateKey's own parameters
	// disagree with a curve already selected by an outer PKCS#8 header.
	ErrCurveMismatch = errors.New("eckey: parameters do not match preset group")
	// ErrInvalidVersion is returned for any ECPrivateKey version other
	// than 1.
	ErrInvalidVersion = errors.New("eckey: unsupported version")
	// ErrInvalidPubkey is returned when a decoded point is malformed, not
	// on the curve, or the identity element.
	ErrInvalidPubkey = errors.New("eckey: public point failed validation")
	// ErrInvalidPrivkey is returned when the private scalar is outside
	// (0, n).
	ErrInvalidPrivkey = errors.New("eckey: private scalar out of range")
)

func curveByID(id oid.CurveID) (elliptic.Curve, bool) {
	switch id {
	case oid.CurveP224:
		return elliptic.P224(), true
	case oid.CurveP256:
		return elliptic.P256(), true
	case oid.CurveP384:
		return elliptic.P384(), true
	case oid.CurveP521:
		return elliptic.P521(), true
	case oid.CurveSecp256k1:
		return btcec.S256(), true
	case oid.CurveSM2P256V1:
		return sm2.P256(), true
	default:
		return nil, false
	}
}

// ParseNamedCurve parses the restricted ECParameters CHOICE of spec.md
// §4.2: only namedCurve OBJECT IDENTIFIER is accepted.
func ParseNamedCurve(c *cursor.Cursor) (oid.CurveID, error) {
	oidCur, err := c.GetTag(cursor.TagObjectIdentifer)
	if err != nil {
		// implicitCurve (NULL) or specifiedCurve (SEQUENCE) take this
		// path too: neither is a supported ECParameters form.
		return oid.CurveNone, ErrUnknownNamedCurve
	}
	o, err := cursor.DecodeOID(oidCur.Rest())
	if err != nil {
		return oid.CurveNone, err
	}
	id := oid.ResolveNamedCurve(o)
	if id == oid.CurveNone {
		return oid.CurveNone, ErrUnknownNamedCurve
	}
	if !c.Done() {
		return oid.CurveNone, cursor.ErrLengthMismatch
	}
	return id, nil
}

// ParsePublicPoint decodes an EC point (uncompressed or compressed form),
// given as BIT STRING content with the unused-bits octet already removed,
// on curveID and validates it: on the curve, and not the identity element.
func ParsePublicPoint(curveID oid.CurveID, data []byte) (*ecdsa.PublicKey, error) {
	curve, ok := curveByID(curveID)
	if !ok {
		return nil, ErrUnknownNamedCurve
	}
	var x, y *big.Int
	if len(data) > 0 && (data[0] == 0x02 || data[0] == 0x03) {
		x, y = elliptic.UnmarshalCompressed(curve, data)
	} else {
		x, y = elliptic.Unmarshal(curve, data)
	}
	if x == nil {
		return nil, ErrInvalidPubkey
	}
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	if err := checkPubkey(pub); err != nil {
		return nil, err
	}
	return pub, nil
}

func checkPubkey(pub *ecdsa.PublicKey) error {
	if pub.X.Sign() == 0 && pub.Y.Sign() == 0 {
		return ErrInvalidPubkey
	}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return ErrInvalidPubkey
	}
	return nil
}

func checkPrivkey(curve elliptic.Curve, d *big.Int) error {
	n := curve.Params().N
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return ErrInvalidPrivkey
	}
	return nil
}

// DerivePublic computes Q = d*G on curveID, used when an ECPrivateKey
// supplies no explicit publicKey field.
func DerivePublic(curveID oid.CurveID, d *big.Int) (*ecdsa.PublicKey, error) {
	curve, ok := curveByID(curveID)
	if !ok {
		return nil, ErrUnknownNamedCurve
	}
	x, y := curve.ScalarBaseMult(d.Bytes())
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// ParsePrivateKey parses a SEC1 (RFC 5915) ECPrivateKey SEQUENCE.
// presetCurve is oid.CurveNone unless an outer PKCS#8 PrivateKeyInfo
// AlgorithmIdentifier already selected a curve, in which case this
// structure's own [0] parameters (if present) must agree with it, and the
// group is already known if they're absent.
func ParsePrivateKey(c *cursor.Cursor, presetCurve oid.CurveID) (*ecdsa.PrivateKey, oid.CurveID, error) {
	seq, err := c.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, oid.CurveNone, err
	}
	version, err := seq.GetInt()
	if err != nil {
		return nil, oid.CurveNone, err
	}
	if version != 1 {
		return nil, oid.CurveNone, ErrInvalidVersion
	}
	dBytes, err := seq.GetOctetString()
	if err != nil {
		return nil, oid.CurveNone, err
	}

	curveID := presetCurve
	if tag, ok := seq.PeekTag(); ok && tag == cursor.Tag0Constructed {
		sub, err := seq.GetTag(cursor.Tag0Constructed)
		if err != nil {
			return nil, oid.CurveNone, err
		}
		parsedCurve, err := ParseNamedCurve(sub)
		if err != nil {
			return nil, oid.CurveNone, err
		}
		if presetCurve != oid.CurveNone && presetCurve != parsedCurve {
			return nil, oid.CurveNone, ErrCurveMismatch
		}
		curveID = parsedCurve
	}
	if curveID == oid.CurveNone {
		return nil, oid.CurveNone, ErrUnknownNamedCurve
	}
	curve, ok := curveByID(curveID)
	if !ok {
		return nil, oid.CurveNone, ErrUnknownNamedCurve
	}

	d := new(big.Int).SetBytes(dBytes)

	var pub *ecdsa.PublicKey
	if tag, ok := seq.PeekTag(); ok && tag == cursor.Tag1Constructed {
		sub, err := seq.GetTag(cursor.Tag1Constructed)
		if err != nil {
			return nil, oid.CurveNone, err
		}
		ptBytes, err := sub.GetBitStringNull()
		if err != nil {
			return nil, oid.CurveNone, err
		}
		pub, err = ParsePublicPoint(curveID, ptBytes)
		if err != nil {
			return nil, oid.CurveNone, err
		}
	} else {
		pub, err = DerivePublic(curveID, d)
		if err != nil {
			return nil, oid.CurveNone, err
		}
	}

	if !seq.Done() {
		return nil, oid.CurveNone, cursor.ErrLengthMismatch
	}
	if err := checkPrivkey(curve, d); err != nil {
		return nil, oid.CurveNone, err
	}

	return &ecdsa.PrivateKey{PublicKey: *pub, D: d}, curveID, nil
}
