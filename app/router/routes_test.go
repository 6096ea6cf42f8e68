package router

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/Kitsune/app/middleware"
	"github.com/amirphl/Kitsune/app/services"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthHandler struct{}

func (stubAuthHandler) SendCode(c fiber.Ctx) error     { return c.SendStatus(fiber.StatusOK) }
func (stubAuthHandler) VerifyCode(c fiber.Ctx) error   { return c.SendStatus(fiber.StatusOK) }
func (stubAuthHandler) RefreshToken(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

type stubLeadHandler struct{}

func (stubLeadHandler) ListLeads(c fiber.Ctx) error     { return c.SendStatus(fiber.StatusOK) }
func (stubLeadHandler) GetLead(c fiber.Ctx) error       { return c.SendStatus(fiber.StatusOK) }
func (stubLeadHandler) CreateLead(c fiber.Ctx) error    { return c.SendStatus(fiber.StatusCreated) }
func (stubLeadHandler) UpdateLead(c fiber.Ctx) error    { return c.SendStatus(fiber.StatusOK) }
func (stubLeadHandler) DeleteLead(c fiber.Ctx) error    { return c.SendStatus(fiber.StatusOK) }
func (stubLeadHandler) AddComment(c fiber.Ctx) error    { return c.SendStatus(fiber.StatusCreated) }
func (stubLeadHandler) ListComments(c fiber.Ctx) error  { return c.SendStatus(fiber.StatusOK) }
func (stubLeadHandler) AddFollowUp(c fiber.Ctx) error   { return c.SendStatus(fiber.StatusCreated) }
func (stubLeadHandler) ListFollowUps(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
func (stubLeadHandler) ExportLeads(c fiber.Ctx) error   { return c.SendStatus(fiber.StatusOK) }

type stubNotifyHandler struct{}

func (stubNotifyHandler) Notify(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func setupTestRouter(t *testing.T) (*fiber.App, services.TokenService) {
	t.Helper()

	tokenService, err := services.NewTokenService(time.Hour, "test-issuer", "test-audience", "test-secret-key-with-at-least-32-characters")
	require.NoError(t, err)

	r := NewFiberRouter(
		stubAuthHandler{},
		stubLeadHandler{},
		stubNotifyHandler{},
		middleware.NewAuthMiddleware(tokenService),
		nil,
		nil,
	)
	r.SetupRoutes()

	return r.GetApp(), tokenService
}

func TestLeadRoutesRequireSessionToken(t *testing.T) {
	app, tokenService := setupTestRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/leads"},
		{"POST", "/api/v1/leads"},
		{"GET", "/api/v1/leads/export"},
		{"GET", "/api/v1/leads/1"},
		{"PUT", "/api/v1/leads/1"},
		{"DELETE", "/api/v1/leads/1"},
	}

	for _, route := range protected {
		resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s without a token", route.method, route.path)
	}

	token, _, err := tokenService.IssueToken(3, "+971506294302")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCommentAndFollowUpRoutesAreOpen(t *testing.T) {
	app, _ := setupTestRouter(t)

	open := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/api/v1/leads/1/comments", fiber.StatusOK},
		{"POST", "/api/v1/leads/1/comments", fiber.StatusCreated},
		{"GET", "/api/v1/leads/1/followups", fiber.StatusOK},
		{"POST", "/api/v1/leads/1/followups", fiber.StatusCreated},
	}

	for _, route := range open {
		resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		assert.Equal(t, route.want, resp.StatusCode, "%s %s must not require a token", route.method, route.path)
	}
}
