package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/requestdata"
	"github.com/focusup-app/focusup-backend/internal/types"
)

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeUserTokenRepo, *fakeVerificationTokenRepo, *fakeMailService) {
	userRepo := &fakeUserRepo{}
	userTokenRepo := &fakeUserTokenRepo{}
	verificationRepo := &fakeVerificationTokenRepo{}
	mail := &fakeMailService{}
	svc := NewAuthService(nil, logger.NewNop(), userRepo, userTokenRepo, verificationRepo, mail,
		"http://localhost:3000", "test-secret", 15*time.Minute, 24*time.Hour)
	return svc, userRepo, userTokenRepo, verificationRepo, mail
}

func registerTestUser(t *testing.T, svc AuthService) *types.User {
	t.Helper()
	user := &types.User{
		Email:     "Ana.Lopez@Example.com ",
		Password:  "Secret123!",
		FirstName: " Ana ",
		LastName:  "López",
	}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	return user
}

func TestRegisterUserCreatesVerification(t *testing.T) {
	svc, userRepo, _, verificationRepo, mail := newAuthFixture()
	user := registerTestUser(t, svc)

	if user.Email != "ana.lopez@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", user.Email)
	}
	if user.Password == "Secret123!" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Secret123!")); err != nil {
		t.Error("stored hash does not match original password")
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("stored users = %d, want 1", len(userRepo.users))
	}
	if userRepo.users[0].EmailVerified {
		t.Error("new user should start unverified")
	}
	if len(verificationRepo.tokens) != 1 {
		t.Fatalf("verification tokens = %d, want 1", len(verificationRepo.tokens))
	}
	vt := verificationRepo.tokens[0]
	if vt.Purpose != types.TokenPurposeVerifyEmail {
		t.Errorf("purpose = %q, want verify email", vt.Purpose)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].HTML, vt.Token) {
		t.Error("verification mail does not carry the token link")
	}
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	dup := &types.User{
		Email:     "ana.lopez@example.com",
		Password:  "Other456!",
		FirstName: "Ana",
		LastName:  "López",
	}
	if err := svc.RegisterUser(context.Background(), dup); err == nil {
		t.Error("expected duplicate email registration to fail")
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, userRepo, _, _, mail := newAuthFixture()
	mail.err = context.DeadlineExceeded

	user := &types.User{
		Email:     "ana@example.com",
		Password:  "Secret123!",
		FirstName: "Ana",
		LastName:  "López",
	}
	if err := svc.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser with failing mail: %v", err)
	}
	if len(userRepo.users) != 1 {
		t.Error("registration rolled back on mail failure")
	}
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _, _, verificationRepo, _ := newAuthFixture()
	registerTestUser(t, svc)

	if _, _, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "Secret123!"); err == nil {
		t.Fatal("expected login before verification to fail")
	}

	if err := svc.VerifyEmail(context.Background(), verificationRepo.tokens[0].Token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	access, refresh, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "Secret123!")
	if err != nil {
		t.Fatalf("LoginUser after verification: %v", err)
	}
	if access == "" || refresh == "" {
		t.Error("expected non-empty token pair")
	}
}

func TestVerifyEmailRejectsReuse(t *testing.T) {
	svc, _, _, verificationRepo, _ := newAuthFixture()
	registerTestUser(t, svc)
	token := verificationRepo.tokens[0].Token

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("first VerifyEmail: %v", err)
	}
	if err := svc.VerifyEmail(context.Background(), token); err == nil {
		t.Error("expected second use of verification token to fail")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthFixture()
	registerTestUser(t, svc)
	userRepo.users[0].EmailVerified = true

	if _, _, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "wrong"); err == nil {
		t.Error("expected wrong password to fail")
	}
}

func TestSetContextFromToken(t *testing.T) {
	svc, _, _, verificationRepo, _ := newAuthFixture()
	user := registerTestUser(t, svc)
	if err := svc.VerifyEmail(context.Background(), verificationRepo.tokens[0].Token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	access, refresh, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "Secret123!")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatal("no request data in context")
	}
	if rd.UserID != user.ID {
		t.Errorf("user id = %v, want %v", rd.UserID, user.ID)
	}
	if rd.RefreshToken != refresh {
		t.Error("refresh token not resolved from access token")
	}

	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); err == nil {
		t.Error("expected garbage token to fail")
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, userTokenRepo, verificationRepo, _ := newAuthFixture()
	registerTestUser(t, svc)
	if err := svc.VerifyEmail(context.Background(), verificationRepo.tokens[0].Token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	_, refresh, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "Secret123!")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{RefreshToken: refresh})
	newAccess, newRefresh, err := svc.RefreshUser(ctx)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatal("expected a fresh token pair")
	}
	if newRefresh == refresh {
		t.Error("refresh token was not rotated")
	}
	// The old refresh token is gone.
	old, _ := userTokenRepo.GetByRefreshTokens(context.Background(), nil, []string{refresh})
	if len(old) != 0 {
		t.Error("old refresh token still stored")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, userRepo, userTokenRepo, verificationRepo, mail := newAuthFixture()
	registerTestUser(t, svc)
	if err := svc.VerifyEmail(context.Background(), verificationRepo.tokens[0].Token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if _, _, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "Secret123!"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	if err := svc.RequestPasswordReset(context.Background(), "ana.lopez@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	var resetToken string
	for _, vt := range verificationRepo.tokens {
		if vt.Purpose == types.TokenPurposePasswordReset {
			resetToken = vt.Token
		}
	}
	if resetToken == "" {
		t.Fatal("no reset token stored")
	}
	if len(mail.sent) != 2 {
		t.Fatalf("mails sent = %d, want 2", len(mail.sent))
	}

	if err := svc.ResetPassword(context.Background(), resetToken, "NewSecret456!"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userRepo.users[0].Password), []byte("NewSecret456!")); err != nil {
		t.Error("password was not updated")
	}
	if len(userTokenRepo.tokens) != 0 {
		t.Error("expected all user tokens revoked after reset")
	}
	if _, _, err := svc.LoginUser(context.Background(), "ana.lopez@example.com", "NewSecret456!"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, verificationRepo, mail := newAuthFixture()
	if err := svc.RequestPasswordReset(context.Background(), "nadie@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(verificationRepo.tokens) != 0 || len(mail.sent) != 0 {
		t.Error("unknown email must not create tokens or mail")
	}
}
