package initdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
)

const testBotToken = "12345:test-token"

func signedPayload(t *testing.T, fields map[string]string) string {
	t.Helper()
	payload := ""
	for k, v := range fields {
		payload += k + "=" + v + "\n"
	}
	return payload + "hash=" + Sign(fields, testBotToken)
}

func TestValidate(t *testing.T) {
	fields := map[string]string{
		"user_id":   "777",
		"auth_date": "1748779200",
		"username":  "linghuchong",
	}

	t.Run("valid signature", func(t *testing.T) {
		res, err := Validate(signedPayload(t, fields), testBotToken)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, res.Expected, res.Provided)
		assert.Equal(t, "777", res.Data["user_id"])
		assert.NotContains(t, res.Data, "hash")
	})

	t.Run("tampered field fails", func(t *testing.T) {
		payload := signedPayload(t, fields)
		tampered := "user_id=666\nauth_date=1748779200\nusername=linghuchong\nhash=" + Sign(fields, testBotToken)
		require.NotEqual(t, payload, tampered)

		res, err := Validate(tampered, testBotToken)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.NotEqual(t, res.Expected, res.Provided)
	})

	t.Run("wrong bot token fails", func(t *testing.T) {
		res, err := Validate(signedPayload(t, fields), "54321:other-token")
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("key order does not matter", func(t *testing.T) {
		payload := "username=linghuchong\nuser_id=777\nauth_date=1748779200\nhash=" + Sign(fields, testBotToken)
		res, err := Validate(payload, testBotToken)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("blank lines and malformed pairs are skipped", func(t *testing.T) {
		payload := "\nuser_id=777\nnot-a-pair\n\nauth_date=1748779200\nusername=linghuchong\nhash=" + Sign(fields, testBotToken)
		res, err := Validate(payload, testBotToken)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("missing hash", func(t *testing.T) {
		_, err := Validate("user_id=777", testBotToken)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := Validate("", testBotToken)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}
