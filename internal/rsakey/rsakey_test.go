package rsakey

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/asn1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromara/pkparse/cursor"
)

func genKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	return priv
}

type pkcs1PublicKey struct {
	N *big.Int
	E int
}

type pkcs1PrivateKey struct {
	Version int
	N       *big.Int
	E       int
	D       *big.Int
	P       *big.Int
	Q       *big.Int
	Dp      *big.Int
	Dq      *big.Int
	Qinv    *big.Int
}

func TestParsePublicKey(t *testing.T) {
	priv := genKey(t)

	t.Run("valid", func(t *testing.T) {
		der, err := asn1.Marshal(pkcs1PublicKey{N: priv.PublicKey.N, E: priv.PublicKey.E})
		require.NoError(t, err)
		pub, err := ParsePublicKey(cursor.New(der))
		require.NoError(t, err)
		assert.Equal(t, priv.PublicKey.N, pub.N)
		assert.Equal(t, priv.PublicKey.E, pub.E)
	})

	t.Run("even exponent rejected", func(t *testing.T) {
		der, err := asn1.Marshal(pkcs1PublicKey{N: priv.PublicKey.N, E: 2})
		require.NoError(t, err)
		_, err = ParsePublicKey(cursor.New(der))
		assert.ErrorIs(t, err, ErrInvalidPubkey)
	})

	t.Run("trailing bytes rejected", func(t *testing.T) {
		der, err := asn1.Marshal(pkcs1PublicKey{N: priv.PublicKey.N, E: priv.PublicKey.E})
		require.NoError(t, err)
		_, err = ParsePublicKey(cursor.New(append(der, 0x00)))
		assert.ErrorIs(t, err, cursor.ErrLengthMismatch)
	})

	t.Run("truncated input", func(t *testing.T) {
		der, err := asn1.Marshal(pkcs1PublicKey{N: priv.PublicKey.N, E: priv.PublicKey.E})
		require.NoError(t, err)
		_, err = ParsePublicKey(cursor.New(der[:len(der)-5]))
		assert.Error(t, err)
	})
}

func TestParsePrivateKey(t *testing.T) {
	priv := genKey(t)
	priv.Precompute()

	marshal := func(version int) []byte {
		der, err := asn1.Marshal(pkcs1PrivateKey{
			Version: version,
			N:       priv.N,
			E:       priv.E,
			D:       priv.D,
			P:       priv.Primes[0],
			Q:       priv.Primes[1],
			Dp:      priv.Precomputed.Dp,
			Dq:      priv.Precomputed.Dq,
			Qinv:    priv.Precomputed.Qinv,
		})
		require.NoError(t, err)
		return der
	}

	t.Run("valid", func(t *testing.T) {
		got, err := ParsePrivateKey(cursor.New(marshal(0)))
		require.NoError(t, err)
		assert.Equal(t, priv.N, got.N)
		assert.Equal(t, priv.D, got.D)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := ParsePrivateKey(cursor.New(marshal(1)))
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
}
