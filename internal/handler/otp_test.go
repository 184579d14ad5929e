package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adityarawat/newsroom/internal/model"
)

func registerAlice(t *testing.T, env *testEnv) {
	t.Helper()
	_, err := env.users.Create(context.Background(), "Alice", "alice@x.com", "secret1", model.RoleUser, 4)
	require.NoError(t, err)
}

func TestSendOTP_UnknownEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := call(t, env.h.SendOTP, http.MethodPost, `{"email":"nobody@x.com"}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, env.mail.sent)
}

func TestSendOTP_StoresAndMailsCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	registerAlice(t, env)

	rec := call(t, env.h.SendOTP, http.MethodPost, `{"email":" ALICE@x.com "}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := env.users.GetByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, u.OTP)
	require.NotNil(t, u.OTPExpiresAt)
	require.WithinDuration(t, time.Now().UTC().Add(10*time.Minute), *u.OTPExpiresAt, 5*time.Second)

	require.Len(t, env.mail.sent, 1)
	require.Equal(t, "alice@x.com", env.mail.sent[0].To)
	require.Contains(t, env.mail.sent[0].Body, *u.OTP)
}

func TestSendOTP_MailFailureRollsBack(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	registerAlice(t, env)
	env.mail.fail = true

	rec := call(t, env.h.SendOTP, http.MethodPost, `{"email":"alice@x.com"}`, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// No orphaned valid code may survive a failed dispatch.
	u, err := env.users.GetByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	require.Nil(t, u.OTP)
	require.Nil(t, u.OTPExpiresAt)
}

func TestVerifyOTP_RoundTripSingleUse(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	registerAlice(t, env)

	rec := call(t, env.h.SendOTP, http.MethodPost, `{"email":"alice@x.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	u, err := env.users.GetByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	code := *u.OTP

	rec = call(t, env.h.VerifyOTP, http.MethodPost,
		`{"email":"alice@x.com","otp":"`+code+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.NotEmpty(t, body["resetTicket"])

	// The exact same code fails a second time.
	rec = call(t, env.h.VerifyOTP, http.MethodPost,
		`{"email":"alice@x.com","otp":"`+code+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTP_Expired(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	registerAlice(t, env)

	// Plant a code whose window has already closed.
	require.NoError(t, env.users.SetOTP(context.Background(), "alice@x.com", "1234",
		time.Now().UTC().Add(-time.Second)))

	rec := call(t, env.h.VerifyOTP, http.MethodPost,
		`{"email":"alice@x.com","otp":"1234"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTP_UnknownEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := call(t, env.h.VerifyOTP, http.MethodPost,
		`{"email":"ghost@x.com","otp":"1234"}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetPassword_RequiresTicket(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	registerAlice(t, env)

	rec := call(t, env.h.ResetPassword, http.MethodPost,
		`{"email":"alice@x.com","password":"newpw"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, "missing ticket field")

	rec = call(t, env.h.ResetPassword, http.MethodPost,
		`{"email":"alice@x.com","password":"newpw","resetTicket":"bogus"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "unissued ticket")
}

func TestResetPassword_FullFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	registerAlice(t, env)

	rec := call(t, env.h.SendOTP, http.MethodPost, `{"email":"alice@x.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	u, err := env.users.GetByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)

	rec = call(t, env.h.VerifyOTP, http.MethodPost,
		`{"email":"alice@x.com","otp":"`+*u.OTP+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ticket := decode(t, rec)["resetTicket"].(string)

	rec = call(t, env.h.ResetPassword, http.MethodPost,
		`{"email":"alice@x.com","password":"newpw","resetTicket":"`+ticket+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Old secret no longer works, new one does.
	rec = call(t, env.h.Login, http.MethodPost,
		`{"email":"alice@x.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = call(t, env.h.Login, http.MethodPost,
		`{"email":"alice@x.com","password":"newpw"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The ticket was single-use.
	rec = call(t, env.h.ResetPassword, http.MethodPost,
		`{"email":"alice@x.com","password":"again","resetTicket":"`+ticket+`"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
