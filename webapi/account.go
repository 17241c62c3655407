package webapi

import (
	"github.com/corebank/ledger/pkg/app"
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRoutes registers the authenticated account endpoints.
//
//   - POST   /account                  : create an account for the caller.
//   - GET    /account                  : list the caller's accounts.
//   - GET    /account/:id/balance      : current balance.
//   - GET    /account/:id/transactions : history, most recent first.
//   - POST   /account/:id/deposit      : credit the account.
//   - POST   /account/:id/withdraw     : debit the account.
//   - POST   /account/:id/transfer     : move funds to another account.
//   - POST   /account/:id/screen       : advisory anomaly screen of an amount.
//   - POST   /account/:id/freeze       : admin only.
//   - POST   /account/:id/activate     : admin only.
//   - POST   /account/:id/close        : admin only, terminal.
func AccountRoutes(router fiber.Router, a *app.App) {
	protected := middleware.JwtProtected(a.Config.Jwt)
	router.Post("/account", protected, CreateAccount(a))
	router.Get("/account", protected, ListAccounts(a))
	router.Get("/account/:id/balance", protected, GetBalance(a))
	router.Get("/account/:id/transactions", protected, GetTransactions(a))
	router.Post("/account/:id/deposit", protected, Deposit(a))
	router.Post("/account/:id/withdraw", protected, Withdraw(a))
	router.Post("/account/:id/transfer", protected, Transfer(a))
	router.Post("/account/:id/screen", protected, Screen(a))
	router.Post("/account/:id/freeze", protected, adminOnly(a, Freeze(a)))
	router.Post("/account/:id/activate", protected, adminOnly(a, Activate(a)))
	router.Post("/account/:id/close", protected, adminOnly(a, CloseAccount(a)))
}

// currentUserID extracts the authenticated caller from the JWT middleware.
func currentUserID(c *fiber.Ctx, a *app.App) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return a.AuthService.CurrentUserID(token)
}

func currentRole(c *fiber.Ctx) user.Role {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return user.Role(role)
}

func adminOnly(a *app.App, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentRole(c) != user.RoleAdmin {
			return ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "administrator role required")
		}
		return next(c)
	}
}

func accountIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
	}
	return id, nil
}

func parseAmount(c *fiber.Ctx, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid amount", err.Error())
	}
	return amount, nil
}

// CreateAccount returns a handler creating a new account for the caller.
func CreateAccount(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, a)
		if err != nil {
			return DomainErrorJSON(c, "Unauthorized", user.ErrUserUnauthorized)
		}
		acct, err := a.LedgerService.CreateAccount(c.Context(), userID)
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return DomainErrorJSON(c, "Failed to create account", err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Account created", acct)
	}
}

// ListAccounts returns a handler listing the caller's accounts.
func ListAccounts(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, a)
		if err != nil {
			return DomainErrorJSON(c, "Unauthorized", user.ErrUserUnauthorized)
		}
		accounts, err := a.LedgerService.GetUserAccounts(c.Context(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to list accounts", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Accounts", accounts)
	}
}

// GetBalance returns a handler reading the account balance.
func GetBalance(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := ownedAccount(c, a)
		if acct == nil {
			return err
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Balance", fiber.Map{
			"account_id": acct.ID,
			"balance":    acct.Balance,
			"status":     acct.Status,
		})
	}
}

// GetTransactions returns a handler listing the account history.
func GetTransactions(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := ownedAccount(c, a)
		if acct == nil {
			return err
		}
		txns, err := a.LedgerService.GetHistory(c.Context(), acct.ID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to list transactions", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions", txns)
	}
}

// Deposit returns a handler crediting the account.
func Deposit(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := ownedAccount(c, a)
		if acct == nil {
			return err
		}
		input, err := BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		amount, err := parseAmount(c, input.Amount)
		if err != nil {
			return err
		}
		balance, err := a.LedgerService.Deposit(c.Context(), acct.ID, amount)
		if err != nil {
			log.Errorf("Deposit failed: %v", err)
			return DomainErrorJSON(c, "Deposit failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", fiber.Map{
			"account_id": acct.ID,
			"balance":    balance,
		})
	}
}

// Withdraw returns a handler debiting the account.
func Withdraw(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := ownedAccount(c, a)
		if acct == nil {
			return err
		}
		input, err := BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		amount, err := parseAmount(c, input.Amount)
		if err != nil {
			return err
		}
		balance, err := a.LedgerService.Withdraw(c.Context(), acct.ID, amount)
		if err != nil {
			log.Errorf("Withdrawal failed: %v", err)
			return DomainErrorJSON(c, "Withdrawal failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful", fiber.Map{
			"account_id": acct.ID,
			"balance":    balance,
		})
	}
}

// Transfer returns a handler moving funds from the caller's account to another.
func Transfer(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := ownedAccount(c, a)
		if acct == nil {
			return err
		}
		input, err := BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		toID, err := uuid.Parse(input.ToAccountID)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid destination account ID", err.Error())
		}
		amount, err := parseAmount(c, input.Amount)
		if err != nil {
			return err
		}
		txn, err := a.Transfers.Transfer(c.Context(), acct.ID, toID, amount)
		if err != nil {
			log.Errorf("Transfer failed: %v", err)
			return DomainErrorJSON(c, "Transfer failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", txn)
	}
}

// Screen returns a handler scoring a proposed amount against the account
// history. The verdict is advisory and never blocks a later operation.
func Screen(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := ownedAccount(c, a)
		if acct == nil {
			return err
		}
		input, err := BindAndValidate[ScreenRequest](c)
		if input == nil {
			return err
		}
		amount, err := parseAmount(c, input.Amount)
		if err != nil {
			return err
		}
		report, err := a.AnomalyScreener.Screen(c.Context(), acct.ID, amount)
		if err != nil {
			return DomainErrorJSON(c, "Screening failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Screening result", report)
	}
}

// Freeze returns an admin handler freezing the account.
func Freeze(a *app.App) fiber.Handler {
	return statusTransition(a, "Account frozen", func(c *fiber.Ctx, a *app.App, accountID, adminID uuid.UUID) error {
		return a.LedgerService.Freeze(c.Context(), accountID, adminID)
	})
}

// Activate returns an admin handler re-activating the account.
func Activate(a *app.App) fiber.Handler {
	return statusTransition(a, "Account activated", func(c *fiber.Ctx, a *app.App, accountID, adminID uuid.UUID) error {
		return a.LedgerService.Activate(c.Context(), accountID, adminID)
	})
}

// CloseAccount returns an admin handler closing the account for good.
func CloseAccount(a *app.App) fiber.Handler {
	return statusTransition(a, "Account closed", func(c *fiber.Ctx, a *app.App, accountID, adminID uuid.UUID) error {
		return a.LedgerService.Close(c.Context(), accountID, adminID)
	})
}

func statusTransition(
	a *app.App,
	message string,
	apply func(c *fiber.Ctx, a *app.App, accountID, adminID uuid.UUID) error,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := currentUserID(c, a)
		if err != nil {
			return DomainErrorJSON(c, "Unauthorized", user.ErrUserUnauthorized)
		}
		accountID, err := accountIDParam(c)
		if err != nil {
			return err
		}
		if err := apply(c, a, accountID, adminID); err != nil {
			log.Errorf("Status transition failed: %v", err)
			return DomainErrorJSON(c, "Status transition failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, message, nil)
	}
}

// ownedAccount loads the account from the :id param and verifies the caller
// owns it (admins may act on any account). On failure it writes the error
// response and returns a nil account.
func ownedAccount(c *fiber.Ctx, a *app.App) (acct *account.Account, err error) {
	userID, err := currentUserID(c, a)
	if err != nil {
		return nil, DomainErrorJSON(c, "Unauthorized", user.ErrUserUnauthorized)
	}
	accountID, err := accountIDParam(c)
	if err != nil {
		return nil, err
	}
	loaded, err := a.LedgerService.GetAccount(c.Context(), accountID)
	if err != nil {
		return nil, DomainErrorJSON(c, "Account lookup failed", err)
	}
	if loaded.UserID != userID && currentRole(c) != user.RoleAdmin {
		return nil, ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "not the account owner")
	}
	return loaded, nil
}
