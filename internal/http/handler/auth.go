package handler

import (
	"github.com/gofiber/fiber/v2"

	"notesapi/internal/http/middleware"
	"notesapi/internal/service"
)

// Signup registers a new account and its student profile.
//
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body service.SignupRequest true "signup form"
// @Success 201 {object} model.Profile
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /auth/signup [post]
func Signup(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		profile, err := authSvc.Signup(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(profile)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /auth/login [post]
func Login(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := authSvc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Logout acknowledges the end of a session. Tokens are stateless, so the
// client discards its copy; expiry bounds any token that is kept around.
//
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "logged out"})
	}
}

// Me returns the authenticated user's profile.
//
// @Summary Current user profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {object} errorPayload
// @Router /auth/me [get]
func Me(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := authSvc.Profile(c.UserContext(), middleware.UserIDFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(profile)
	}
}
