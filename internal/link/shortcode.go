// AngelaMos | 2026
// shortcode.go

package link

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var alphabetSize = big.NewInt(int64(len(codeAlphabet)))

// reservedCodes are root paths served by fixed routes. Neither generated
// codes nor custom aliases may take them.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"healthz": {},
	"livez":   {},
	"readyz":  {},
}

func isReserved(code string) bool {
	_, ok := reservedCodes[strings.ToLower(code)]
	return ok
}

// CodeChecker reports whether a code is already taken as a short code or
// a custom alias.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Generator draws random base36 codes and retries on collision up to a
// fixed budget.
type Generator struct {
	checker     CodeChecker
	length      int
	maxAttempts int
	random      io.Reader
}

func NewGenerator(checker CodeChecker, length, maxAttempts int) *Generator {
	return &Generator{
		checker:     checker,
		length:      length,
		maxAttempts: maxAttempts,
		random:      rand.Reader,
	}
}

// Generate returns a code that was free at the time of the check.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	return g.Reserve(ctx, nil)
}

// Reserve draws codes until one is free and claim accepts it. A claim that
// fails with ErrCodeTaken, a lost insert race, spends one attempt from the
// same budget as a failed existence check.
func (g *Generator) Reserve(
	ctx context.Context,
	claim func(ctx context.Context, code string) error,
) (string, error) {
	for range g.maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := randomCode(g.random, g.length)
		if err != nil {
			return "", err
		}
		if isReserved(code) {
			continue
		}

		taken, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if taken {
			continue
		}

		if claim == nil {
			return code, nil
		}

		err = claim(ctx, code)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}

		return code, nil
	}

	return "", ErrCodeSpaceExhausted
}

func randomCode(r io.Reader, length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(r, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("draw code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
