package similarity

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"héllo", "hello", 1},
		{"a\nb", "a\nc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.InDelta(t, 4.0/7.0, Similarity("kitten", "sitting"), 1e-9)
	assert.Equal(t, 1.0, Similarity("const x = 1", "const x = 1"))
}

func TestSimilarityProperties(t *testing.T) {
	cfg := &quick.Config{MaxCount: 200}

	symmetric := func(a, b string) bool {
		return Similarity(a, b) == Similarity(b, a)
	}
	assert.NoError(t, quick.Check(symmetric, cfg))

	identity := func(a string) bool {
		return Similarity(a, a) == 1.0
	}
	assert.NoError(t, quick.Check(identity, cfg))

	bounded := func(a, b string) bool {
		s := Similarity(a, b)
		return s >= 0.0 && s <= 1.0
	}
	assert.NoError(t, quick.Check(bounded, cfg))
}

func TestDistanceTriangleInequality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcde \n")
	word := func() string {
		n := rng.Intn(12)
		out := make([]rune, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(out)
	}

	for i := 0; i < 500; i++ {
		a, b, c := word(), word(), word()
		assert.LessOrEqual(t, Distance(a, b), Distance(a, c)+Distance(c, b), "a=%q b=%q c=%q", a, b, c)
	}
}
