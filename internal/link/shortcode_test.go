// AngelaMos | 2026
// shortcode_test.go

package link

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/linkbio/internal/core"
)

var base36Code = regexp.MustCompile(`^[0-9a-z]{6}$`)

type checkerFunc func(ctx context.Context, code string) (bool, error)

func (f checkerFunc) CodeExists(ctx context.Context, code string) (bool, error) {
	return f(ctx, code)
}

func TestGenerator_Format(t *testing.T) {
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		return false, nil
	}), 6, 10)

	seen := make(map[string]struct{})
	for range 200 {
		code, err := g.Generate(context.Background())
		require.NoError(t, err)
		assert.Regexp(t, base36Code, code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 190)
}

func TestGenerator_RetriesOnCollision(t *testing.T) {
	calls := 0
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		calls++
		return calls < 4, nil
	}), 6, 10)

	code, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, base36Code, code)
	assert.Equal(t, 4, calls)
}

func TestGenerator_Exhausted(t *testing.T) {
	calls := 0
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}), 6, 10)

	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExhausted)
	assert.Equal(t, 10, calls)
	assert.Equal(t, 503, core.FromError(err, "link").StatusCode)
}

// indexBytes yields one byte per character so that rand.Int over the
// alphabet size draws exactly those characters.
func indexBytes(codes ...string) []byte {
	var out []byte
	for _, code := range codes {
		for _, c := range code {
			out = append(out, byte(strings.IndexRune(codeAlphabet, c)))
		}
	}
	return out
}

func TestGenerator_SkipsReservedCodes(t *testing.T) {
	var checked []string
	g := NewGenerator(checkerFunc(func(_ context.Context, code string) (bool, error) {
		checked = append(checked, code)
		return false, nil
	}), 6, 10)
	g.random = bytes.NewReader(indexBytes("readyz", "abc123"))

	code, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", code)
	assert.Equal(t, []string{"abc123"}, checked)
}

func TestGenerator_ReservedDrawSpendsAttempt(t *testing.T) {
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		return false, nil
	}), 3, 2)
	g.random = bytes.NewReader(indexBytes("api", "api"))

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, core.ErrExhausted)
}

func TestGenerator_ClaimRaceSharesBudget(t *testing.T) {
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		return false, nil
	}), 6, 3)

	claims := 0
	_, err := g.Reserve(context.Background(), func(context.Context, string) error {
		claims++
		return ErrCodeTaken
	})

	assert.ErrorIs(t, err, core.ErrExhausted)
	assert.Equal(t, 3, claims)
}

func TestGenerator_ClaimErrorStops(t *testing.T) {
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		return false, nil
	}), 6, 10)

	boom := errors.New("boom")
	claims := 0
	_, err := g.Reserve(context.Background(), func(context.Context, string) error {
		claims++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, claims)
}

func TestGenerator_CheckerError(t *testing.T) {
	g := NewGenerator(checkerFunc(func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	}), 6, 10)

	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrExhausted)
}
