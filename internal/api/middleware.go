package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunalog/internal/models"
)

// AuthRequired resolves the caller. Users holding a temporary password may
// only change it or log out; users who have not finished onboarding may only
// onboard, change their password or log out.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && !passwordChangeExempt(c.Path()) {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}
	if requiresOnboarding(user) && !onboardingExempt(c.Path()) {
		return apiError(c, fiber.StatusForbidden, "onboarding required")
	}
	return c.Next()
}

func requiresOnboarding(user *models.User) bool {
	return user != nil && !user.OnboardingCompleted
}

func onboardingExempt(path string) bool {
	return path == "/api/onboarding" || passwordChangeExempt(path)
}

func passwordChangeExempt(path string) bool {
	return path == "/api/auth/password" || path == "/api/auth/logout"
}
