package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedID(t *testing.T, authorization string) string {
	t.Helper()

	app := fiber.New()
	app.Use(ResolveIdentity())
	var got string
	app.Post("/whoami", func(c *fiber.Ctx) error {
		got = CallerID(c, "claimed-id")
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	_, err := app.Test(req, 5000)
	require.NoError(t, err)
	return got
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestCallerIDWithoutSecretTrustsClaim(t *testing.T) {
	jwtSecret = nil
	assert.Equal(t, "claimed-id", resolvedID(t, ""))
}

func TestCallerIDPrefersVerifiedSubject(t *testing.T) {
	jwtSecret = nil
	InitIdentity("test-secret")
	t.Cleanup(func() { jwtSecret = nil })

	token := signToken(t, "test-secret", "verified-id")
	assert.Equal(t, "verified-id", resolvedID(t, "Bearer "+token))
}

func TestCallerIDIgnoresInvalidToken(t *testing.T) {
	jwtSecret = nil
	InitIdentity("test-secret")
	t.Cleanup(func() { jwtSecret = nil })

	// wrong key: the claim falls back to the request's opaque id
	token := signToken(t, "another-secret", "forged-id")
	assert.Equal(t, "claimed-id", resolvedID(t, "Bearer "+token))
}

func TestRateLimitBudgetPerCaller(t *testing.T) {
	app := fiber.New()
	app.Post("/burst", RateLimit("test-burst", 2, time.Hour), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	hit := func(userID string) int {
		body := []byte(`{"userId":"` + userID + `"}`)
		req := httptest.NewRequest("POST", "/burst", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, 5000)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, hit("alice"))
	assert.Equal(t, fiber.StatusOK, hit("alice"))
	assert.Equal(t, fiber.StatusTooManyRequests, hit("alice"))

	// a different caller has an untouched budget
	assert.Equal(t, fiber.StatusOK, hit("bob"))
}
