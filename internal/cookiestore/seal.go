package cookiestore

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	fileVersion = 1
	saltLength  = 16
	nonceLength = 24
)

var errWrongPassphrase = errors.New("cookie store cannot be opened with this passphrase")

// file is the on-disk layout. Exactly one of Cookies or Sealed is set.
type file struct {
	Version int      `json:"version"`
	Salt    []byte   `json:"salt,omitempty"`
	Sealed  []byte   `json:"sealed,omitempty"`
	Cookies []*entry `json:"cookies,omitempty"`
}

type sealer struct {
	salt []byte
	key  [32]byte
}

func newSealer(passphrase string, salt []byte) (*sealer, error) {
	if len(salt) == 0 {
		salt = make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
	}
	derived, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	s := &sealer{salt: salt}
	copy(s.key[:], derived)
	return s, nil
}

func seal(entries []*entry, s *sealer) (*file, error) {
	if s == nil {
		return &file{Version: fileVersion, Cookies: entries}, nil
	}

	plain, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode cookies: %w", err)
	}
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return &file{
		Version: fileVersion,
		Salt:    s.salt,
		Sealed:  secretbox.Seal(nonce[:], plain, &nonce, &s.key),
	}, nil
}

func (f *file) open(s *sealer) ([]*entry, error) {
	if len(f.Sealed) == 0 {
		return f.Cookies, nil
	}
	if s == nil {
		return nil, errWrongPassphrase
	}
	if len(f.Sealed) < nonceLength {
		return nil, errWrongPassphrase
	}

	var nonce [nonceLength]byte
	copy(nonce[:], f.Sealed[:nonceLength])
	plain, ok := secretbox.Open(nil, f.Sealed[nonceLength:], &nonce, &s.key)
	if !ok {
		return nil, errWrongPassphrase
	}

	var entries []*entry
	if err := json.Unmarshal(plain, &entries); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	return entries, nil
}
