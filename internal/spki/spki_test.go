package spki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromara/pkparse/cursor"
)

func TestParseRSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		res, err := Parse(cursor.New(der))
		require.NoError(t, err)
		require.NotNil(t, res.RSA)
		assert.Equal(t, priv.PublicKey.N, res.RSA.N)
	})

	t.Run("truncated", func(t *testing.T) {
		for cut := 1; cut < 6; cut++ {
			_, err := Parse(cursor.New(der[:len(der)-cut]))
			assert.Error(t, err)
		}
	})

	t.Run("trailing bytes", func(t *testing.T) {
		// One extra byte after the BIT STRING, inside the outer SEQUENCE.
		// Bytes after the SEQUENCE itself are left on the cursor instead.
		outer, err := cursor.New(der).GetTag(cursor.TagSequence)
		require.NoError(t, err)
		body := append(append([]byte{}, outer.Rest()...), 0x00)
		padded, err := asn1.Marshal(asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagSequence, IsCompound: true, Bytes: body})
		require.NoError(t, err)
		_, err = Parse(cursor.New(padded))
		assert.ErrorIs(t, err, cursor.ErrLengthMismatch)
	})
}

func TestParseEC(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	res, err := Parse(cursor.New(der))
	require.NoError(t, err)
	require.NotNil(t, res.EC)
	assert.Equal(t, priv.X, res.EC.X)
	assert.Equal(t, priv.Y, res.EC.Y)
}

func TestParseRSAWithNonNullParams(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 512)
	require.NoError(t, err)
	pub := x509.MarshalPKCS1PublicKey(&priv.PublicKey)

	// Build an AlgorithmIdentifier whose parameters are an OCTET STRING
	// instead of NULL or absent — scenario 9 of the concrete end-to-end
	// test vectors: rejected with InvalidAlg regardless of an otherwise
	// well-formed RSAPublicKey payload. Constructed by hand since
	// encoding/asn1 has no tag override for "ANY carrying an arbitrary
	// non-NULL type" at this granularity.
	rsaOID := []byte{cursor.TagObjectIdentifer, 0x09, 0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x01}
	octetParams := []byte{cursor.TagOctetString, 0x01, 0xAB}
	algBody := append(append([]byte{}, rsaOID...), octetParams...)
	alg := append([]byte{cursor.TagSequence, byte(len(algBody))}, algBody...)
	bitStringBody := append([]byte{0x00}, pub...)
	bitString := append([]byte{cursor.TagBitString, byte(len(bitStringBody))}, bitStringBody...)
	body := append(append([]byte{}, alg...), bitString...)
	der := append([]byte{cursor.TagSequence, byte(len(body))}, body...)

	_, err = Parse(cursor.New(der))
	assert.ErrorIs(t, err, ErrInvalidAlg)
}
