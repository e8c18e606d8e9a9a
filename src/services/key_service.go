package services

import "fmt"

// IssuedKey is a freshly generated API key in its three forms
type IssuedKey struct {
	Plain     string // returned to the user once per request
	Encrypted string // stored so the key can be shown again at login
	Hash      string // indexed lookup value
}

// KeyService issues and resolves user API keys
type KeyService struct {
	encryptor *Encryptor
	hasher    *TokenHasher
}

// NewKeyService creates a new key service
func NewKeyService(encryptor *Encryptor, hasher *TokenHasher) *KeyService {
	return &KeyService{encryptor: encryptor, hasher: hasher}
}

// Issue generates a new random API key
func (ks *KeyService) Issue() (IssuedKey, error) {
	plain, err := GenerateToken()
	if err != nil {
		return IssuedKey{}, err
	}
	encrypted, err := ks.encryptor.EncryptString(plain)
	if err != nil {
		return IssuedKey{}, fmt.Errorf("failed to encrypt api key: %w", err)
	}
	return IssuedKey{Plain: plain, Encrypted: encrypted, Hash: ks.hasher.Hash(plain)}, nil
}

// Reveal decrypts a stored API key
func (ks *KeyService) Reveal(encrypted string) (string, error) {
	plain, err := ks.encryptor.DecryptString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt api key: %w", err)
	}
	return plain, nil
}

// Hash returns the lookup hash for a presented key
func (ks *KeyService) Hash(plain string) string {
	return ks.hasher.Hash(plain)
}

// HashToken returns the lookup hash for an activation or reset token
func (ks *KeyService) HashToken(token string) string {
	return ks.hasher.Hash(token)
}
