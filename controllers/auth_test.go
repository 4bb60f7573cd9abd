package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupEnv(t)

	resp := env.request(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username":  "newbie",
		"email":     "newbie@example.com",
		"password":  "password123",
		"full_name": "New Person",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])

	resp = env.request(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": "newbie",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result = decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := setupEnv(t)

	resp := env.request(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": "admin",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidatesPayload(t *testing.T) {
	env := setupEnv(t)

	resp := env.request(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	env := setupEnv(t)

	resp := env.request(t, "GET", "/api/auth/profile", env.adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	assert.Equal(t, "admin", result["username"])
	assert.Equal(t, "admin", result["role"])

	resp = env.request(t, "GET", "/api/auth/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
