package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/services"
)

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid credentials")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrEmailAlreadyRegistered):
		return apiError(c, fiber.StatusConflict, "email already registered")
	case err != nil:
		return handler.respondServiceError(c, err)
	}

	token, err := handler.setAuthCookie(c, &user, false)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := clientKey(c)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.loginLimiter.clear(limiterKey)

	token, err := handler.setAuthCookie(c, &user, input.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{
		"user":                user,
		"token":               token,
		"onboarding_required": requiresOnboarding(&user),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user := currentUser(c)
	err := handler.authService.ChangePassword(user, input.CurrentPassword, input.NewPassword)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		return apiError(c, fiber.StatusUnauthorized, "current password is incorrect")
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
