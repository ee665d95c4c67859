package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "a"))
	assert.False(t, ContainsString([]string{}, "a"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
}

func TestMin(t *testing.T) {
	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, 1, Min(2, 1))
	assert.Equal(t, -1, Min(-1, 0))
}

func TestRandomAlphabetString(t *testing.T) {
	assert.Equal(t, 8, len(RandomAlphabetString(8)))
	assert.NotEqual(t, RandomAlphabetString(16), RandomAlphabetString(16))
}

func TestTextToMd5Hash(t *testing.T) {
	hash, err := TextToMd5Hash("hello")
	assert.Nil(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", hash)
}

func TestGetUrlExtNameWithDot(t *testing.T) {
	assert.Equal(t, ".png", GetUrlExtNameWithDot("https://cdn.example.com/a/b.png"))
	assert.Equal(t, ".jpg", GetUrlExtNameWithDot("https://cdn.example.com/a.jpg?size=large"))
	assert.Equal(t, "", GetUrlExtNameWithDot("https://cdn.example.com/a"))
}
