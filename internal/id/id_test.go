package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		v, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[v], "ID should be unique: %s", v)
		ids[v] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"color", PrefixColor},
		{"client", PrefixClient},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Generate(tt.prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(v, tt.prefix+"-"))

			// NanoID default is 21 characters
			assert.Len(t, v, len(tt.prefix)+1+21, "ID: %s", v)

			nanoidPart := strings.TrimPrefix(v, tt.prefix+"-")
			for _, char := range nanoidPart {
				assert.True(t,
					(char >= 'A' && char <= 'Z') ||
						(char >= 'a' && char <= 'z') ||
						(char >= '0' && char <= '9') ||
						char == '_' || char == '-',
					"Character %c should be URL-safe", char)
			}
		})
	}
}

func TestMustGenerate_Format(t *testing.T) {
	v := MustGenerate("test")

	assert.True(t, strings.HasPrefix(v, "test-"))
	assert.Len(t, v, len("test")+1+21)
}

func TestNanoID(t *testing.T) {
	gen := NanoID(PrefixColor)

	a, err := gen()
	require.NoError(t, err)
	b, err := gen()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "color-"))
	assert.NotEqual(t, a, b)
}

func TestSequential(t *testing.T) {
	gen := Sequential("c")

	for _, want := range []string{"c-1", "c-2", "c-3"} {
		got, err := gen()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSequential_Concurrent(t *testing.T) {
	gen := Sequential("c")

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for range 50 {
		wg.Go(func() {
			v, err := gen()
			assert.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix("color-1", PrefixColor))
	assert.True(t, HasPrefix(MustGenerate(PrefixColor), PrefixColor))
	assert.False(t, HasPrefix("color-", PrefixColor))
	assert.False(t, HasPrefix("client-abc", PrefixColor))
	assert.False(t, HasPrefix("color1", PrefixColor))
	assert.False(t, HasPrefix("", PrefixColor))
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate("bench")
	}
}
