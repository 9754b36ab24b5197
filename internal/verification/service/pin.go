package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const pinDigits = 6

var pinSpace = big.NewInt(1_000_000)

// pinIssuer creates the one-time PIN handed to a producer after a successful
// verification. Only the bcrypt hash is persisted.
type pinIssuer struct {
	cost int
}

func newPINIssuer() *pinIssuer {
	return &pinIssuer{cost: bcrypt.DefaultCost}
}

// Issue returns a zero-padded 6-digit PIN and its hash.
func (p *pinIssuer) Issue() (string, []byte, error) {
	n, err := rand.Int(rand.Reader, pinSpace)
	if err != nil {
		return "", nil, fmt.Errorf("generate pin: %w", err)
	}
	pin := fmt.Sprintf("%0*d", pinDigits, n.Int64())
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), p.cost)
	if err != nil {
		return "", nil, fmt.Errorf("hash pin: %w", err)
	}
	return pin, hash, nil
}
