package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordProducesBcryptHash(t *testing.T) {
	hash, err := SetPassword("passw0rd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.NotEqual(t, "passw0rd", hash)
}

func TestCheckPasswordRoundtrip(t *testing.T) {
	hash, err := SetPassword("passw0rd")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "passw0rd"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestSuffixNicknameAppendsRandomDigits(t *testing.T) {
	suffixed := SuffixNickname("小明")
	assert.True(t, strings.HasPrefix(suffixed, "小明_"))
	assert.Len(t, strings.TrimPrefix(suffixed, "小明_"), 4)
}
