package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/config"
	"github.com/adityarawat/newsroom/internal/middleware"
	"github.com/adityarawat/newsroom/internal/model"
	"github.com/adityarawat/newsroom/internal/repository"
	"github.com/adityarawat/newsroom/internal/storage"
	"github.com/adityarawat/newsroom/internal/utils"
)

// UserStore is the credential-store surface the auth handlers depend on.
// Satisfied by *repository.UserRepo; tests substitute a fake.
type UserStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, p repository.ProfilePatch) (model.User, error)
	UpdateRole(ctx context.Context, id uint64, role string) (model.User, error)
	UpdatePassword(ctx context.Context, email, password string, cost int) error
	SetOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, email, code string, now time.Time) error
	ClearOTP(ctx context.Context, email string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]model.User, error)
}

// TokenRevoker records explicitly logged-out tokens.  Satisfied by
// *repository.RevocationStore.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
}

// TicketStore issues and redeems single-use password-reset tickets.
// Satisfied by *repository.ResetTicketStore.
type TicketStore interface {
	Issue(ctx context.Context, email, ticket string, ttl time.Duration) error
	Consume(ctx context.Context, email, ticket string) (bool, error)
}

// MailSender dispatches transactional mail.  Satisfied by *mailer.Mailer.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Users   UserStore
	Revoked TokenRevoker
	Tickets TicketStore
	Mail    MailSender
	Uploads *storage.Store
}

func NewAuthHandler(cfg config.Config, users UserStore, revoked TokenRevoker, tickets TicketStore, mail MailSender, uploads *storage.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Revoked: revoked, Tickets: tickets, Mail: mail, Uploads: uploads}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// A role field sent by the client is deliberately not bound here:
	// role assignment is server-controlled.
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRoleReq struct {
	ID   uint64 `json:"id"`
	Role string `json:"role"`
}

type authResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// profileResp is the client-visible projection of a user record.  The
// password hash and OTP state never appear here.
type profileResp struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Contact        string    `json:"contact"`
	Country        string    `json:"country"`
	DOB            string    `json:"dob"`
	Gender         string    `json:"gender"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProfile(u model.User) profileResp {
	return profileResp{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Contact:        u.Contact,
		Country:        u.Country,
		DOB:            u.DOB,
		Gender:         u.Gender,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register creates a user and returns its identity with a fresh session
// token.  New accounts always get the "user" role; promotion goes through
// UpdateRole only.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, uid, req.Email, model.RoleUser, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, authResp{
		ID: uid, Name: req.Name, Email: req.Email, Role: model.RoleUser, Token: tok.Token,
	})
}

// Login verifies credentials and returns a fresh session token.  Unknown
// email and wrong password produce the same response so identities cannot
// be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: tok.Token,
	})
}

// Logout adds the presented token to the revocation set, with a TTL equal
// to the token's remaining lifetime so the entry evicts itself.  The route
// is deliberately outside the auth guard: a missing token is a 400 here,
// not a 401.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token not found"})
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	// An unparsable or already-expired token cannot be used anyway, so
	// revocation is only recorded for live tokens.
	if claims, err := utils.ParseSessionToken(h.Cfg.JWTSecret, raw); err == nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
		ttl := time.Until(claims.Exp)
		if err := h.Revoked.Revoke(ctx, utils.HashToken(raw), ttl); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// Profile returns the profile for the requested id.  Only the owner or an
// admin may read it.
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	if caller.ID != id && caller.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfile(u))
}

// UpdateProfile overwrites the mutable profile fields of the target user
// from a multipart form and stores a new profile picture when one was
// uploaded.  Only the owner or an admin may update a profile; empty form
// fields keep their current values.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	if caller.ID != id && caller.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	patch := repository.ProfilePatch{
		Name:    formOr(c, "name", existing.Name),
		Contact: formOr(c, "contact", existing.Contact),
		Country: formOr(c, "country", existing.Country),
		DOB:     formOr(c, "dob", existing.DOB),
		Gender:  formOr(c, "gender", existing.Gender),
	}
	if !model.ValidGender(patch.Gender) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gender"})
	}

	if fh, ferr := c.FormFile("profilePicture"); ferr == nil {
		ref, serr := h.Uploads.Save(fh, "profilePicture")
		if serr == storage.ErrTooLarge {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
		}
		if serr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		patch.Picture = ref
	}

	u, err := h.Users.UpdateProfile(ctx, id, patch)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toProfile(u))
}

func formOr(c echo.Context, field, fallback string) string {
	if v := c.FormValue(field); v != "" {
		return v
	}
	return fallback
}

// UserCount returns the total number of accounts.  Admin only.
func (h *AuthHandler) UserCount(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user count"})
	}
	return c.JSON(http.StatusOK, echo.Map{"totalUsers": n})
}

// UserList returns all accounts as sanitized profiles.  Admin only.
func (h *AuthHandler) UserList(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch users"})
	}
	out := make([]profileResp, 0, len(users))
	for _, u := range users {
		out = append(out, toProfile(u))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateRole changes the role of the target user.  The route is admin-gated;
// the handler validates the requested role and reports a missing target.
func (h *AuthHandler) UpdateRole(c echo.Context) error {
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.ID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	u, err := h.Users.UpdateRole(ctx, req.ID, req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "user role updated successfully",
		"user":    toProfile(u),
	})
}
