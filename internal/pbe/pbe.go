// Package pbe implements the password-based decryption schemes
// EncryptedPrivateKeyInfo can name: PKCS#5 PBES2 (PBKDF2 + a block
// cipher) and the PKCS#12 family (Appendix B key derivation + RC4 or
// DES-EDE3). It is the "PBE substrate" collaborator of spec.md §6.
//
// PBES2's KDF is golang.org/x/crypto/pbkdf2, the same module the
// teacher's go.mod already requires. PKCS#12 Appendix B has no
// off-the-shelf implementation anywhere in the reference pack or the
// wider ecosystem as a small composable primitive, so it's implemented
// directly here from RFC 7292 Appendix B using only crypto/sha1 as a
// hash input — the KDF construction itself, not a cryptographic
// primitive, is what's hand-written.
package pbe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/rc4"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"hash"
	"unicode/utf16"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dromara/pkparse/cursor"
	"github.com/dromara/pkparse/internal/oid"
)

var (
	// ErrPasswordRequired is returned when the scheme needs a password
	// and the caller supplied none.
	ErrPasswordRequired = errors.New("pbe: password required")
	// ErrPasswordMismatch is returned when decryption detectably used
	// the wrong password (bad PKCS#7 padding, or — for the RC4 scheme,
	// which has no padding to check — the RC4-first-byte heuristic
	// applied by the caller).
	ErrPasswordMismatch = errors.New("pbe: password mismatch")
	// ErrInvalidFormat is returned when the PBE parameters themselves
	// are malformed or name an unsupported KDF/cipher combination.
	ErrInvalidFormat = errors.New("pbe: invalid or unsupported PBE parameters")
	// ErrBadInputData is returned when the ciphertext length doesn't
	// match the cipher's block size.
	ErrBadInputData = errors.New("pbe: ciphertext length invalid for cipher block size")
)

// DecryptPBES2 implements PKCS#5 v2.1 PBES2: params is the
// PBES2-params SEQUENCE { keyDerivationFunc AlgorithmIdentifier,
// encryptionScheme AlgorithmIdentifier }.
func DecryptPBES2(params *cursor.Cursor, password, ciphertext []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	if params == nil {
		return nil, ErrInvalidFormat
	}
	seq, err := params.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	kdfOID, kdfParams, err := seq.GetAlg()
	if err != nil || !kdfOID.Equal(oid.OidPBKDF2) || kdfParams == nil {
		return nil, ErrInvalidFormat
	}
	encOID, encParams, err := seq.GetAlg()
	if err != nil {
		return nil, ErrInvalidFormat
	}
	cipherScheme := oid.ResolveCipherScheme(encOID)
	if cipherScheme == oid.CipherNone || encParams == nil {
		return nil, ErrInvalidFormat
	}

	kseq, err := kdfParams.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	salt, err := kseq.GetOctetString()
	if err != nil {
		return nil, ErrInvalidFormat
	}
	iterCount, err := kseq.GetInt()
	if err != nil || iterCount <= 0 {
		return nil, ErrInvalidFormat
	}
	keySize, _ := oid.CipherKeyIVSize(cipherScheme)
	prf := oid.PRFHMACSHA1
	if !kseq.Done() {
		if tag, ok := kseq.PeekTag(); ok && tag == cursor.TagInteger {
			if _, err := kseq.GetInt(); err != nil { // keyLength, informational only
				return nil, ErrInvalidFormat
			}
		}
		if !kseq.Done() {
			prfOID, _, err := kseq.GetAlg()
			if err != nil {
				return nil, ErrInvalidFormat
			}
			prf = oid.ResolvePRF(prfOID)
		}
	}
	var newHash func() hash.Hash
	switch prf {
	case oid.PRFHMACSHA1:
		newHash = sha1.New
	case oid.PRFHMACSHA256:
		newHash = sha256.New
	default:
		return nil, ErrInvalidFormat
	}

	iv, err := encParams.GetOctetString()
	if err != nil {
		return nil, ErrInvalidFormat
	}

	key := pbkdf2.Key(password, salt, iterCount, keySize, newHash)
	block, err := newCipherBlock(cipherScheme, key)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(iv) != block.BlockSize() {
		return nil, ErrInvalidFormat
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, ErrBadInputData
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)
	return removePKCS7Padding(plain, block.BlockSize())
}

func newCipherBlock(scheme oid.CipherScheme, key []byte) (cipher.Block, error) {
	switch scheme {
	case oid.CipherAES128CBC, oid.CipherAES192CBC, oid.CipherAES256CBC:
		return aes.NewCipher(key)
	case oid.CipherDESEDE3CBC:
		return des.NewTripleDESCipher(key)
	default:
		return nil, ErrInvalidFormat
	}
}

func removePKCS7Padding(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrBadInputData
	}
	pad := int(b[len(b)-1])
	if pad == 0 || pad > blockSize || pad > len(b) {
		return nil, ErrPasswordMismatch
	}
	for _, v := range b[len(b)-pad:] {
		if int(v) != pad {
			return nil, ErrPasswordMismatch
		}
	}
	return b[:len(b)-pad], nil
}

// pkcs12Params is PKCS-12PbeParams ::= SEQUENCE { salt OCTET STRING,
// iterations INTEGER }.
func parsePKCS12Params(params *cursor.Cursor) (salt []byte, iterations int, err error) {
	if params == nil {
		return nil, 0, ErrInvalidFormat
	}
	seq, err := params.GetTag(cursor.TagSequence)
	if err != nil {
		return nil, 0, ErrInvalidFormat
	}
	salt, err = seq.GetOctetString()
	if err != nil {
		return nil, 0, ErrInvalidFormat
	}
	iterations, err = seq.GetInt()
	if err != nil || iterations <= 0 {
		return nil, 0, ErrInvalidFormat
	}
	if !seq.Done() {
		return nil, 0, ErrInvalidFormat
	}
	return salt, iterations, nil
}

// rc4KeySize returns the RC4 key length in bytes for the two PKCS#12 RC4
// schemes: 128-bit for pbeWithSHAAnd128BitRC4, 40-bit for
// pbeWithSHAAnd40BitRC4. ok is false for any other scheme.
func rc4KeySize(scheme oid.PBEScheme) (size int, ok bool) {
	switch scheme {
	case oid.PBEPKCS12SHA1RC4_128:
		return 16, true
	case oid.PBEPKCS12SHA1RC4_40:
		return 5, true
	default:
		return 0, false
	}
}

// DecryptPKCS12RC4 implements the PKCS#12 SHA1-RC4 schemes (128-bit and
// 40-bit key sizes, per scheme). RC4 has no authenticator; the dispatcher
// (internal/pkcs8) applies the first-byte-must-be-0x30 heuristic on the
// returned plaintext.
func DecryptPKCS12RC4(scheme oid.PBEScheme, params *cursor.Cursor, password, ciphertext []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	keySize, ok := rc4KeySize(scheme)
	if !ok {
		return nil, ErrInvalidFormat
	}
	salt, iterations, err := parsePKCS12Params(params)
	if err != nil {
		return nil, err
	}
	key := pkcs12KDF(sha1.New, bmpString(password), salt, iterations, 1, keySize)
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	plain := make([]byte, len(ciphertext))
	c.XORKeyStream(plain, ciphertext)
	return plain, nil
}

// DecryptPKCS12 implements the PKCS#12 SHA1-DES-EDE3/DES-EDE2 PBE
// schemes. The RC2 variants are recognized by internal/oid but have no
// cipher implementation anywhere in the reference pack or the standard
// library; those map to ErrInvalidFormat here and FeatureUnavailableError
// at the module boundary.
func DecryptPKCS12(scheme oid.PBEScheme, params *cursor.Cursor, password, ciphertext []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	salt, iterations, err := parsePKCS12Params(params)
	if err != nil {
		return nil, err
	}
	pw := bmpString(password)

	var key []byte
	switch scheme {
	case oid.PBEPKCS12SHA1DES3:
		key = pkcs12KDF(sha1.New, pw, salt, iterations, 1, 24)
	case oid.PBEPKCS12SHA1DES2:
		k := pkcs12KDF(sha1.New, pw, salt, iterations, 1, 16)
		key = append(append(append([]byte{}, k[:8]...), k[8:16]...), k[:8]...)
	default:
		return nil, ErrInvalidFormat
	}
	iv := pkcs12KDF(sha1.New, pw, salt, iterations, 2, 8)

	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, ErrBadInputData
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)
	return removePKCS7Padding(plain, block.BlockSize())
}

// pkcs12KDF implements RFC 7292 Appendix B.2's key material generation:
// id selects the diversifier (1 = key material, 2 = IV, 3 = MAC key).
func pkcs12KDF(newHash func() hash.Hash, password, salt []byte, iterations, id, size int) []byte {
	const v = 64 // hash block size for SHA1 and MD5

	diversifier := make([]byte, v)
	for i := range diversifier {
		diversifier[i] = byte(id)
	}
	s := fillToBlock(salt, v)
	p := fillToBlock(password, v)
	work := append(append([]byte{}, s...), p...)

	out := make([]byte, 0, size+newHash().Size())
	for len(out) < size {
		h := newHash()
		h.Write(diversifier)
		h.Write(work)
		a := h.Sum(nil)
		for r := 1; r < iterations; r++ {
			h2 := newHash()
			h2.Write(a)
			a = h2.Sum(nil)
		}
		out = append(out, a...)

		if len(work) > 0 {
			b := make([]byte, v)
			for i := range b {
				b[i] = a[i%len(a)]
			}
			for i := 0; i < len(work); i += v {
				addOne(work[i:i+v], b)
			}
		}
	}
	return out[:size]
}

// addOne computes block = (block + addend + 1) mod 2^(8*len(block)), the
// "Ij = (Ij + B + 1)" step of RFC 7292 Appendix B.2.
func addOne(block, addend []byte) {
	carry := 1
	for i := len(block) - 1; i >= 0; i-- {
		sum := int(block[i]) + int(addend[i]) + carry
		block[i] = byte(sum)
		carry = sum >> 8
	}
}

func fillToBlock(in []byte, v int) []byte {
	if len(in) == 0 {
		return nil
	}
	n := ((len(in) + v - 1) / v) * v
	out := make([]byte, n)
	for i := range out {
		out[i] = in[i%len(in)]
	}
	return out
}

// bmpString encodes a password as PKCS#12 expects it: UTF-16BE with a
// trailing null code point.
func bmpString(password []byte) []byte {
	runes := []rune(string(password))
	units := utf16.Encode(runes)
	out := make([]byte, 0, len(units)*2+2)
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return append(out, 0, 0)
}
