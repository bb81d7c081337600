package commands

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// CodeGenerator issues numeric one-time codes.
type CodeGenerator interface {
	Generate(length int) (string, error)
}

type randomCodes struct{}

func NewCodeGenerator() CodeGenerator {
	return randomCodes{}
}

// Generate draws each code independently from crypto/rand.
func (randomCodes) Generate(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	s := n.String()
	if pad := length - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s, nil
}
