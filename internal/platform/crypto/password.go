package crypto

import "golang.org/x/crypto/bcrypt"

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. Values outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
