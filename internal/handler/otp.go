package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/repository"
	"github.com/adityarawat/newsroom/internal/utils"
)

type sendOTPReq struct {
	Email string `json:"email"`
}

type verifyOTPReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	ResetTicket string `json:"resetTicket"`
}

// SendOTP generates a one-time code for a known identity, stores it with a
// 10-minute expiry and dispatches it by email.  Dispatch failure rolls the
// stored code back so no orphaned valid code survives a mail outage.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := utils.NormalizeEmail(req.Email)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, email); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	code, err := utils.NewOTPCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate otp failed"})
	}
	expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.OTPTTLMin) * time.Minute)
	if err := h.Users.SetOTP(ctx, email, code, expiresAt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store otp failed"})
	}

	if err := h.Mail.Send(ctx, email, "Your OTP Code", "Your OTP is: "+code); err != nil {
		// Roll back so the user is not left holding a code they never got.
		_ = h.Users.ClearOTP(ctx, email)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send otp"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to email"})
}

// VerifyOTP redeems a one-time code.  The code is cleared atomically on
// success (a second verify with the same code fails) and a single-use reset
// ticket is issued for the subsequent password reset.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := utils.NormalizeEmail(req.Email)
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and otp are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch err := h.Users.ConsumeOTP(ctx, email, code, time.Now().UTC()); err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case repository.ErrOTPInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired OTP"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify otp failed"})
	}

	ticket, err := utils.NewResetTicket()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue reset ticket failed"})
	}
	ttl := time.Duration(h.Cfg.ResetTicketTTLMin) * time.Minute
	if err := h.Tickets.Issue(ctx, email, ticket, ttl); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue reset ticket failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "OTP verified successfully",
		"resetTicket": ticket,
	})
}

// ResetPassword overwrites the account secret.  It requires the single-use
// ticket handed out by VerifyOTP, binding the reset to a recent successful
// OTP verification for the same identity.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := utils.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" || req.ResetTicket == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and resetTicket are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Tickets.Consume(ctx, email, req.ResetTicket)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired reset ticket"})
	}

	if err := h.Users.UpdatePassword(ctx, email, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successfully"})
}
