package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(TokenBytes)
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, TokenBytes)

	other, err := GenerateToken(TokenBytes)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestGenerateToken_RejectsNonPositiveSize(t *testing.T) {
	_, err := GenerateToken(0)
	require.Error(t, err)
}
