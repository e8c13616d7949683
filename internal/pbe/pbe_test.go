package pbe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rc4"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/asn1"
	"testing"

	"golang.org/x/crypto/pbkdf2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dromara/pkparse/cursor"
	"github.com/dromara/pkparse/internal/oid"
)

var oidPBKDF2 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5, 12}
var oidAES256CBC = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}
var oidHMACWithSHA256 = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 9}

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

type pbkdf2Params struct {
	Salt       []byte
	Iterations int
	Prf        algorithmIdentifier
}

type pbes2Params struct {
	KeyDerivationFunc algorithmIdentifier
	EncryptionScheme  algorithmIdentifier
}

func marshalPBES2(t *testing.T, salt, iv []byte, iterations int) []byte {
	t.Helper()
	kdfParams, err := asn1.Marshal(pbkdf2Params{
		Salt:       salt,
		Iterations: iterations,
		Prf:        algorithmIdentifier{Algorithm: oidHMACWithSHA256, Parameters: asn1.RawValue{FullBytes: []byte{cursor.TagNull, 0x00}}},
	})
	require.NoError(t, err)
	encParams, err := asn1.Marshal(iv)
	require.NoError(t, err)

	outer, err := asn1.Marshal(pbes2Params{
		KeyDerivationFunc: algorithmIdentifier{Algorithm: oidPBKDF2, Parameters: asn1.RawValue{FullBytes: kdfParams}},
		EncryptionScheme:  algorithmIdentifier{Algorithm: oidAES256CBC, Parameters: asn1.RawValue{FullBytes: encParams}},
	})
	require.NoError(t, err)
	return outer
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	pad := blockSize - len(b)%blockSize
	out := append([]byte{}, b...)
	for i := 0; i < pad; i++ {
		out = append(out, byte(pad))
	}
	return out
}

func TestDecryptPBES2(t *testing.T) {
	salt := make([]byte, 8)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	iv := make([]byte, 16)
	_, err = rand.Read(iv)
	require.NoError(t, err)
	password := []byte("changeit")
	plaintext := []byte("the quick brown fox jumps over the lazy dog!!!!")

	key := pbkdf2.Key(password, salt, 2048, 32, sha256.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	params := marshalPBES2(t, salt, iv, 2048)

	t.Run("correct password", func(t *testing.T) {
		got, err := DecryptPBES2(cursor.New(params), password, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := DecryptPBES2(cursor.New(params), []byte("wrong"), ciphertext)
		assert.Error(t, err)
	})

	t.Run("no password", func(t *testing.T) {
		_, err := DecryptPBES2(cursor.New(params), nil, ciphertext)
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})
}

type pkcs12PbeParams struct {
	Salt       []byte
	Iterations int
}

func marshalPKCS12Params(t *testing.T, salt []byte, iterations int) []byte {
	t.Helper()
	b, err := asn1.Marshal(pkcs12PbeParams{Salt: salt, Iterations: iterations})
	require.NoError(t, err)
	return b
}

func TestDecryptPKCS12RC4(t *testing.T) {
	salt := make([]byte, 20)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	password := []byte("changeit")
	plaintext := append([]byte{0x30, 0x05}, []byte("hello")...)
	params := marshalPKCS12Params(t, salt, 1000)

	t.Run("128-bit", func(t *testing.T) {
		key := pkcs12KDF(sha1.New, bmpString(password), salt, 1000, 1, 16)
		c, err := rc4.NewCipher(key)
		require.NoError(t, err)
		ciphertext := make([]byte, len(plaintext))
		c.XORKeyStream(ciphertext, plaintext)

		got, err := DecryptPKCS12RC4(oid.PBEPKCS12SHA1RC4_128, cursor.New(params), password, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("40-bit", func(t *testing.T) {
		// RFC 7292's pbeWithSHAAnd40BitRC4 derives only a 5-byte key; a
		// decrypt that ignores scheme and always derives 16 bytes would
		// produce garbage here even with the right password.
		key := pkcs12KDF(sha1.New, bmpString(password), salt, 1000, 1, 5)
		c, err := rc4.NewCipher(key)
		require.NoError(t, err)
		ciphertext := make([]byte, len(plaintext))
		c.XORKeyStream(ciphertext, plaintext)

		got, err := DecryptPKCS12RC4(oid.PBEPKCS12SHA1RC4_40, cursor.New(params), password, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})
}

func TestBMPString(t *testing.T) {
	got := bmpString([]byte("ab"))
	assert.Equal(t, []byte{0x00, 'a', 0x00, 'b', 0x00, 0x00}, got)
}

func TestPKCS12KDFDeterministic(t *testing.T) {
	a := pkcs12KDF(sha1.New, bmpString([]byte("pw")), []byte("salt1234"), 100, 1, 24)
	b := pkcs12KDF(sha1.New, bmpString([]byte("pw")), []byte("salt1234"), 100, 1, 24)
	assert.Equal(t, a, b)
	c := pkcs12KDF(sha1.New, bmpString([]byte("pw2")), []byte("salt1234"), 100, 1, 24)
	assert.NotEqual(t, a, c)
}
