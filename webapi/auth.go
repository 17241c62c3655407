package webapi

import (
	"github.com/corebank/ledger/pkg/app"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// AuthRoutes registers the unauthenticated endpoints.
//
//   - POST /auth/register : create a user account.
//   - POST /auth/login    : exchange credentials for a bearer token.
func AuthRoutes(router fiber.Router, a *app.App) {
	router.Post("/auth/register", Register(a))
	router.Post("/auth/login", Login(a))
}

// Register returns a handler creating a new user.
func Register(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := a.UserService.Register(c.Context(), input.Name, input.Email, input.Password)
		if err != nil {
			log.Errorf("Failed to register user: %v", err)
			return DomainErrorJSON(c, "Registration failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "User registered", u)
	}
}

// Login returns a handler exchanging credentials for a signed token.
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		u, token, err := a.AuthService.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			log.Warnf("Login failed for %s: %v", input.Email, err)
			return DomainErrorJSON(c, "Login failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Login successful", fiber.Map{
			"token": token,
			"user":  u,
		})
	}
}
