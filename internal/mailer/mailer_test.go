package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	for _, good := range []string{
		"jane@example.com",
		"Jane Doe <jane@example.com>",
		"jane+tag@sub.example.com",
	} {
		assert.NoError(t, ValidateAddress(good), good)
	}

	for _, bad := range []string{
		"",
		"not-an-address",
		"jane@",
		"jane@example.com\r\nBcc: spam@example.com",
	} {
		assert.Error(t, ValidateAddress(bad), bad)
	}
}

func TestNewMessageID(t *testing.T) {
	id, err := newMessageID("smtp.example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "<"))
	assert.True(t, strings.HasSuffix(id, "@smtp.example.com>"))

	other, err := newMessageID("smtp.example.com")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
