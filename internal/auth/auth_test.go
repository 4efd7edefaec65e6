package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	// sha256("secret"), hex encoded
	const want = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"

	assert.Equal(t, want, HashPassword("secret"))
	assert.Equal(t, HashPassword("secret"), HashPassword("secret"), "digest must be deterministic")
	assert.NotEqual(t, HashPassword("secret"), HashPassword("Secret"))
}

func TestCheckPassword(t *testing.T) {
	digest := HashPassword("hunter2")

	assert.True(t, CheckPassword("hunter2", digest))
	assert.False(t, CheckPassword("hunter3", digest))
	assert.False(t, CheckPassword("", digest))
}
