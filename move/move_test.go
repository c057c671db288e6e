package move

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"e2e4", Move{From: NewSquare(4, 1), To: NewSquare(4, 3)}},
		{"a1h8", Move{From: 0, To: 63}},
		{"e7e8q", Move{From: NewSquare(4, 6), To: NewSquare(4, 7), Promotion: Queen}},
		{"b2a1n", Move{From: NewSquare(1, 1), To: 0, Promotion: Knight}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, Encode(got))
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{
		"", "e2", "e2e", "e2e4qq", "i2e4", "e0e4", "e2e9", "e7e8k", "e7e8Q", "E2E4", "e2-e4",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Decode(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedMove), "got %v", err)
		})
	}
}

func TestRoundTripAllSquares(t *testing.T) {
	promos := []Promotion{NoPromotion, Queen, Rook, Bishop, Knight}
	for from := Square(0); from < 64; from++ {
		for to := Square(0); to < 64; to++ {
			for _, p := range promos {
				m := Move{From: from, To: to, Promotion: p}
				got, err := Decode(Encode(m))
				require.NoError(t, err)
				if got != m {
					t.Fatalf("round trip of %v = %v", m, got)
				}
			}
		}
	}
}

func TestSquare(t *testing.T) {
	s, err := ParseSquare("c6")
	require.NoError(t, err)
	assert.Equal(t, 2, s.File())
	assert.Equal(t, 5, s.Rank())
	assert.Equal(t, "c6", s.String())

	assert.Equal(t, NoSquare, NewSquare(8, 0))
	assert.Equal(t, "-", NoSquare.String())

	_, err = ParseSquare("z9")
	assert.True(t, errors.Is(err, ErrInvalidSquare))
}

func TestIsNull(t *testing.T) {
	assert.True(t, MustDecode("e4e4").IsNull())
	assert.False(t, MustDecode("e2e4").IsNull())
}
