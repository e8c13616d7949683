// Package cursor implements a bounded, read-only DER/ASN.1 cursor.
//
// It is the primitive typed-read layer every structural parser in this
// module builds on: tag, length, INTEGER, OCTET STRING, BIT STRING, OID,
// and AlgorithmIdentifier reads, none of which ever copy the input bytes or
// read past the window they were handed. The tag+length decode and content windowing
// — the actual bounds-checked DER engine — is delegated to
// golang.org/x/crypto/cryptobyte.String, the same primitive the teacher's
// own crypto/internal/sm2/asn1.go builds its SPKI/PKCS#8 parsing on; this
// package adds only the domain-specific typed reads (MPI sign/minimality
// checks, AlgorithmIdentifier shape, OID dotted-number decode) on top.
//
// Cursor is exported (rather than kept under internal/) so callers
// embedding this module in a larger certificate parser can share one
// cursor across SubjectPublicKeyInfo and the surrounding Certificate
// structure, the way cryptobyte.String itself is exported for the same
// reason.
package cursor

import (
	"encoding/asn1"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Sentinel errors. Every structural parser wraps these with its own
// domain error; callers that need to distinguish "ran out of bytes" from
// "wrong shape" can still errors.Is against these after unwrapping.
var (
	ErrOutOfData      = errors.New("cursor: out of data")
	ErrUnexpectedTag  = errors.New("cursor: unexpected tag")
	ErrInvalidLength  = errors.New("cursor: invalid DER length encoding")
	ErrLengthMismatch = errors.New("cursor: trailing bytes in bounded region")
)

// DER tag bytes, sourced from golang.org/x/crypto/cryptobyte/asn1 instead
// of hand-rolled magic numbers.
var (
	TagInteger         = byte(cbasn1.INTEGER)
	TagBitString       = byte(cbasn1.BIT_STRING)
	TagOctetString     = byte(cbasn1.OCTET_STRING)
	TagNull            = byte(cbasn1.NULL)
	TagObjectIdentifer = byte(cbasn1.OBJECT_IDENTIFIER)
	TagSequence        = byte(cbasn1.SEQUENCE)
	Tag0Constructed    = byte(cbasn1.Tag(0).ContextSpecific().Constructed())
	Tag1Constructed    = byte(cbasn1.Tag(1).ContextSpecific().Constructed())
)

// Cursor is a window over a DER byte buffer, backed by a
// cryptobyte.String. It never owns or copies the underlying bytes; every
// returned slice and every sub-cursor aliases the buffer the caller
// supplied to New.
type Cursor struct {
	s cryptobyte.String
}

// New returns a Cursor bounding the whole of b.
func New(b []byte) *Cursor {
	return &Cursor{s: cryptobyte.String(b)}
}

// Len reports the number of unread bytes left in the window.
func (c *Cursor) Len() int { return len(c.s) }

// Done reports whether the window has been fully consumed.
func (c *Cursor) Done() bool { return len(c.s) == 0 }

// Rest returns the remaining unread bytes of the window, without
// advancing the cursor. The returned slice aliases the input buffer.
func (c *Cursor) Rest() []byte { return []byte(c.s) }

// PeekTag returns the next unread byte without consuming it. ok is false
// when the window is exhausted.
func (c *Cursor) PeekTag() (tag byte, ok bool) {
	if len(c.s) == 0 {
		return 0, false
	}
	return c.s[0], true
}

// GetTag verifies the next byte equals expected, decodes a DER length via
// cryptobyte.String.ReadASN1 (which rejects indefinite length, non-minimal
// long-form length, and over-long length-octet counts on its own), and
// returns a sub-cursor bounding exactly the content. The parent cursor is
// advanced past the consumed tag, length, and content.
func (c *Cursor) GetTag(expected byte) (*Cursor, error) {
	tag := cbasn1.Tag(expected)
	if len(c.s) == 0 {
		return nil, ErrOutOfData
	}
	if !c.s.PeekASN1Tag(tag) {
		return nil, ErrUnexpectedTag
	}
	var content cryptobyte.String
	if !c.s.ReadASN1(&content, tag) {
		return nil, classifyLengthError(c.s)
	}
	return &Cursor{s: content}, nil
}

// classifyLengthError re-derives, for error-reporting purposes only, why a
// length header cryptobyte.String.ReadASN1 just rejected was invalid:
// truncated (ErrOutOfData) vs. malformed — indefinite, non-minimal
// long-form, or too many length octets (ErrInvalidLength). s is left
// untouched by a failed ReadASN1, so this only re-reads header bytes
// cryptobyte already determined are present; it performs none of the
// actual content windowing, which ReadASN1 above already owns.
func classifyLengthError(s cryptobyte.String) error {
	if len(s) < 2 {
		return ErrOutOfData
	}
	lenByte := s[1]
	if lenByte&0x80 == 0 {
		if len(s)-2 < int(lenByte) {
			return ErrOutOfData
		}
		return ErrInvalidLength
	}
	lenLen := int(lenByte & 0x7f)
	if lenLen == 0 || lenLen > 4 {
		return ErrInvalidLength
	}
	if len(s) < 2+lenLen {
		return ErrOutOfData
	}
	var length uint32
	for _, b := range s[2 : 2+lenLen] {
		length = length<<8 | uint32(b)
	}
	if length < 0x80 || length>>uint((lenLen-1)*8) == 0 {
		return ErrInvalidLength
	}
	if len(s) < 2+lenLen+int(length) {
		return ErrOutOfData
	}
	return ErrInvalidLength
}

// GetInt reads a small INTEGER (version fields, iteration counts) into an
// int. Negative, non-minimal, and over-long (more than 5 content octets)
// encodings are rejected.
func (c *Cursor) GetInt() (int, error) {
	sub, err := c.GetTag(TagInteger)
	if err != nil {
		return 0, err
	}
	b := sub.Rest()
	if len(b) == 0 {
		return 0, ErrInvalidLength
	}
	if b[0]&0x80 != 0 {
		return 0, ErrInvalidLength
	}
	if len(b) > 1 && b[0] == 0 && b[1]&0x80 == 0 {
		return 0, ErrInvalidLength
	}
	if len(b) > 5 {
		return 0, ErrInvalidLength
	}
	v := 0
	for _, x := range b {
		v = v<<8 | int(x)
	}
	return v, nil
}

// GetMPI reads an INTEGER into a big-endian, arbitrary-precision integer.
// RSA key components are always non-negative; a negative encoding is
// rejected.
func (c *Cursor) GetMPI() (*big.Int, error) {
	sub, err := c.GetTag(TagInteger)
	if err != nil {
		return nil, err
	}
	b := sub.Rest()
	if len(b) == 0 {
		return nil, ErrInvalidLength
	}
	if b[0]&0x80 != 0 {
		return nil, ErrInvalidLength
	}
	return new(big.Int).SetBytes(b), nil
}

// GetOctetString reads an OCTET STRING and returns its content.
func (c *Cursor) GetOctetString() ([]byte, error) {
	sub, err := c.GetTag(TagOctetString)
	if err != nil {
		return nil, err
	}
	return sub.Rest(), nil
}

// GetBitStringNull reads a BIT STRING, verifies its leading "unused bits"
// octet is zero (the only form used by any structure this module parses),
// and returns the remaining content.
func (c *Cursor) GetBitStringNull() ([]byte, error) {
	sub, err := c.GetTag(TagBitString)
	if err != nil {
		return nil, err
	}
	var unused uint8
	if !sub.s.ReadUint8(&unused) {
		return nil, ErrInvalidLength
	}
	if unused != 0 {
		return nil, ErrInvalidLength
	}
	return sub.Rest(), nil
}

// GetAlg reads an AlgorithmIdentifier SEQUENCE { algorithm OBJECT
// IDENTIFIER, parameters ANY OPTIONAL }. params is nil when the
// AlgorithmIdentifier carries no parameters at all; otherwise it is an
// opaque cursor over whatever bytes follow the OID, unconsumed.
func (c *Cursor) GetAlg() (asn1.ObjectIdentifier, *Cursor, error) {
	seq, err := c.GetTag(TagSequence)
	if err != nil {
		return nil, nil, err
	}
	oidCur, err := seq.GetTag(TagObjectIdentifer)
	if err != nil {
		return nil, nil, err
	}
	oid, err := DecodeOID(oidCur.Rest())
	if err != nil {
		return nil, nil, err
	}
	if seq.Done() {
		return oid, nil, nil
	}
	return oid, &Cursor{s: seq.s}, nil
}

// IsNull reports whether the cursor's entire remaining window is exactly
// an ASN.1 NULL (tag 0x05, length 0) — the form RSA's AlgorithmIdentifier
// parameters must take when present at all.
func (c *Cursor) IsNull() bool {
	return len(c.s) == 2 && c.s[0] == TagNull && c.s[1] == 0x00
}

// DecodeOID decodes the raw base-128 content bytes of an OBJECT
// IDENTIFIER (without its tag or length octets) into dotted-number form.
// cryptobyte.String's own OID reader (ReadASN1ObjectIdentifier) operates
// on a tag-prefixed element, not bare content, so this narrower decode —
// content only, as already split out by GetAlg — stays hand-written.
func DecodeOID(content []byte) (asn1.ObjectIdentifier, error) {
	if len(content) == 0 {
		return nil, ErrInvalidLength
	}
	var oid []int
	val := 0
	first := true
	for _, b := range content {
		if val > (1<<28)/128 { // guard against overflow on pathological input
			return nil, ErrInvalidLength
		}
		val = val<<7 | int(b&0x7f)
		if b&0x80 == 0 {
			if first {
				if val < 80 {
					oid = append(oid, val/40, val%40)
				} else {
					oid = append(oid, 2, val-80)
				}
				first = false
			} else {
				oid = append(oid, val)
			}
			val = 0
		}
	}
	if val != 0 || first {
		return nil, ErrInvalidLength
	}
	return asn1.ObjectIdentifier(oid), nil
}
