package pkparse

import "os"

// ParsePrivateKeyFile reads path and parses it as a private key, the
// thin file-loader spec.md §6 calls parse_keyfile. The raw file content
// is wiped before this function returns, on every path — success or
// error alike — per spec.md §4.4's buffer-zeroization requirement.
func ParsePrivateKeyFile(path string, password []byte) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	defer zero(data)
	return ParsePrivateKey(data, password)
}

// ParsePublicKeyFile reads path and parses it as a public key, the thin
// file-loader spec.md §6 calls parse_public_keyfile.
func ParsePublicKeyFile(path string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	defer zero(data)
	return ParsePublicKey(data)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
