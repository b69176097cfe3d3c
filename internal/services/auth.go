package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/normalization"
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/requestdata"
	"github.com/focusup-app/focusup-backend/internal/types"
	"github.com/focusup-app/focusup-backend/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	db                *gorm.DB
	log               *logger.Logger
	userRepo          repos.UserRepo
	userTokenRepo     repos.UserTokenRepo
	verificationRepo  repos.VerificationTokenRepo
	mail              MailService
	frontendBaseURL   string
	jwtSecretKey      string
	accessTTL         time.Duration
	refreshTTL        time.Duration
	verifyTokenTTL    time.Duration
	resetTokenTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	verificationRepo repos.VerificationTokenRepo,
	mail MailService,
	frontendBaseURL string,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		userTokenRepo:    userTokenRepo,
		verificationRepo: verificationRepo,
		mail:             mail,
		frontendBaseURL:  frontendBaseURL,
		jwtSecretKey:     jwtSecretKey,
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
		verifyTokenTTL:   72 * time.Hour,
		resetTokenTTL:    1 * time.Hour,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	utils.NormalizeUserFields(ctx, user)
	if vErr := utils.InputValidation(ctx, "registration", as.userRepo, as.log, user, "", ""); vErr != nil {
		return vErr
	}
	if hErr := utils.HashPassword(ctx, as.log, user); hErr != nil {
		return hErr
	}

	var verifyToken string
	if err := runInTx(ctx, as.db, func(tx *gorm.DB) error {
		user.ID = uuid.New()
		if _, ucErr := as.userRepo.Create(ctx, tx, []*types.User{user}); ucErr != nil {
			return fmt.Errorf("failed to create user: %w", ucErr)
		}
		verifyToken = uuid.New().String()
		vt := types.VerificationToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     verifyToken,
			Purpose:   types.TokenPurposeVerifyEmail,
			ExpiresAt: time.Now().Add(as.verifyTokenTTL),
		}
		if _, vtErr := as.verificationRepo.Create(ctx, tx, []*types.VerificationToken{&vt}); vtErr != nil {
			return fmt.Errorf("failed to create verification token: %w", vtErr)
		}
		return nil
	}); err != nil {
		return err
	}

	// Mail failure does not roll the registration back; the user can request
	// a new verification link.
	link := fmt.Sprintf("%s/verify-email?token=%s", as.frontendBaseURL, verifyToken)
	html := fmt.Sprintf("<p>Hola %s,</p><p>Confirma tu cuenta de Focus Up:</p><p><a href=%q>Verificar correo</a></p>", user.FirstName, link)
	if mErr := as.mail.Send(ctx, user.Email, "Verifica tu correo", html); mErr != nil {
		as.log.Warn("Failed to send verification email", "user_id", user.ID, "error", mErr)
	}
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = normalization.ParseInputString(email)

	if vErr := utils.InputValidation(ctx, "login", as.userRepo, as.log, nil, email, password); vErr != nil {
		return "", "", vErr
	}

	users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if usErr != nil {
		return "", "", fmt.Errorf("error retrieving user by email: %w", usErr)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("invalid email")
	}

	user := users[0]
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", fmt.Errorf("invalid password")
	}
	if !user.EmailVerified {
		return "", "", fmt.Errorf("email not verified")
	}

	var accessToken string
	var refreshToken string
	if err := runInTx(ctx, as.db, func(tx *gorm.DB) error {
		foundTokens, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if ftErr != nil {
			return fmt.Errorf("failed to check user tokens: %w", ftErr)
		}
		expired := []*types.UserToken{}
		for _, t := range foundTokens {
			if t != nil && t.ExpiresAt.Before(time.Now()) {
				expired = append(expired, t)
			}
		}
		if len(expired) > 0 {
			if dtErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, expired); dtErr != nil {
				return fmt.Errorf("failed to delete expired user tokens: %w", dtErr)
			}
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token error: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		expiresAt := time.Now().Add(as.refreshTTL)
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    expiresAt,
		}
		if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
			as.log.Warn("Create user token error", "error", ctErr)
			return fmt.Errorf("create user token error: %w", ctErr)
		}
		return nil
	}); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return "", "", fmt.Errorf("no request data found in context")
	}
	if rd.RefreshToken == "" {
		return "", "", fmt.Errorf("refresh token not found in request data")
	}

	var accessToken string
	var newRefreshTokenStr string
	err := runInTx(ctx, as.db, func(tx *gorm.DB) error {
		foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if ftErr != nil {
			return fmt.Errorf("error fetching refresh token: %w", ftErr)
		}
		if len(foundTokens) == 0 || foundTokens[0] == nil {
			return fmt.Errorf("refresh token not found")
		}
		existingToken := foundTokens[0]

		const expiryBuffer = 5 * time.Minute
		if existingToken.ExpiresAt.Add(expiryBuffer).Before(time.Now()) {
			if dtErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existingToken}); dtErr != nil {
				return fmt.Errorf("refresh token expired, error deleting: %w", dtErr)
			}
			return fmt.Errorf("refresh token expired")
		}

		users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existingToken.UserID})
		if uErr != nil {
			return fmt.Errorf("failed to load user for refresh: %w", uErr)
		}
		if len(users) == 0 {
			return fmt.Errorf("no user found for the given refresh token")
		}
		user := users[0]

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("failed to generate new access token: %w", genErr)
		}
		accessToken = tok
		newRefreshTokenStr = uuid.New().String()
		newUserToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  tok,
			RefreshToken: newRefreshTokenStr,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newUserToken}); cErr != nil {
			return fmt.Errorf("failed to create new user token: %w", cErr)
		}
		if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existingToken}); dErr != nil {
			return fmt.Errorf("failed to remove old refresh token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		as.log.Warn("Failed refresh transaction", "error", err)
		return "", "", err
	}
	return accessToken, newRefreshTokenStr, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context")
	}
	if rd.TokenString == "" {
		return fmt.Errorf("token string in request data empty")
	}
	return runInTx(ctx, as.db, func(tx *gorm.DB) error {
		foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if ftErr != nil {
			return fmt.Errorf("error finding user token from token string: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return nil
		}
		if tdErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, foundTokens); tdErr != nil {
			return fmt.Errorf("error deleting user token: %w", tdErr)
		}
		return nil
	})
}

func (as *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("verification token required")
	}
	return runInTx(ctx, as.db, func(tx *gorm.DB) error {
		vt, err := as.verificationRepo.GetByToken(ctx, tx, token)
		if err != nil {
			return fmt.Errorf("error fetching verification token: %w", err)
		}
		if vt == nil || vt.Purpose != types.TokenPurposeVerifyEmail {
			return fmt.Errorf("invalid verification token")
		}
		if vt.UsedAt != nil {
			return fmt.Errorf("verification token already used")
		}
		if vt.ExpiresAt.Before(time.Now()) {
			return fmt.Errorf("verification token expired")
		}
		if err := as.userRepo.SetEmailVerified(ctx, tx, vt.UserID, true); err != nil {
			return fmt.Errorf("failed to mark email verified: %w", err)
		}
		if err := as.verificationRepo.MarkUsed(ctx, tx, vt.ID, time.Now()); err != nil {
			return fmt.Errorf("failed to mark token used: %w", err)
		}
		return nil
	})
}

// RequestPasswordReset never reveals whether an email is registered.
func (as *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalization.ParseInputString(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return fmt.Errorf("error retrieving user by email: %w", err)
	}
	if len(users) == 0 {
		as.log.Debug("Password reset requested for unknown email", "email", email)
		return nil
	}
	user := users[0]

	resetToken := uuid.New().String()
	if err := runInTx(ctx, as.db, func(tx *gorm.DB) error {
		if dErr := as.verificationRepo.FullDeleteByUserAndPurpose(ctx, tx, user.ID, types.TokenPurposePasswordReset); dErr != nil {
			return fmt.Errorf("failed to clear previous reset tokens: %w", dErr)
		}
		vt := types.VerificationToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     resetToken,
			Purpose:   types.TokenPurposePasswordReset,
			ExpiresAt: time.Now().Add(as.resetTokenTTL),
		}
		_, cErr := as.verificationRepo.Create(ctx, tx, []*types.VerificationToken{&vt})
		return cErr
	}); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", as.frontendBaseURL, resetToken)
	html := fmt.Sprintf("<p>Hola %s,</p><p>Restablece tu contraseña:</p><p><a href=%q>Nueva contraseña</a></p><p>El enlace expira en 1 hora.</p>", user.FirstName, link)
	if mErr := as.mail.Send(ctx, user.Email, "Restablecer contraseña", html); mErr != nil {
		as.log.Warn("Failed to send password reset email", "user_id", user.ID, "error", mErr)
	}
	return nil
}

func (as *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("reset token required")
	}
	if newPassword == "" {
		return fmt.Errorf("new password required")
	}
	hashed, hErr := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if hErr != nil {
		return fmt.Errorf("failed to hash password")
	}
	return runInTx(ctx, as.db, func(tx *gorm.DB) error {
		vt, err := as.verificationRepo.GetByToken(ctx, tx, token)
		if err != nil {
			return fmt.Errorf("error fetching reset token: %w", err)
		}
		if vt == nil || vt.Purpose != types.TokenPurposePasswordReset {
			return fmt.Errorf("invalid reset token")
		}
		if vt.UsedAt != nil {
			return fmt.Errorf("reset token already used")
		}
		if vt.ExpiresAt.Before(time.Now()) {
			return fmt.Errorf("reset token expired")
		}
		if err := as.userRepo.UpdatePassword(ctx, tx, vt.UserID, string(hashed)); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := as.verificationRepo.MarkUsed(ctx, tx, vt.ID, time.Now()); err != nil {
			return fmt.Errorf("failed to mark token used: %w", err)
		}
		// Force re-login everywhere.
		tokens, tErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{vt.UserID})
		if tErr != nil {
			return fmt.Errorf("failed to load user tokens: %w", tErr)
		}
		if len(tokens) > 0 {
			if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, tokens); dErr != nil {
				return fmt.Errorf("failed to revoke user tokens: %w", dErr)
			}
		}
		return nil
	})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	var refreshTokenStr string
	foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if ftErr != nil {
		as.log.Warn("Error fetching user token by access token", "error", ftErr)
		return ctx, fmt.Errorf("failed to fetch user token by access token: %w", ftErr)
	}
	if len(foundTokens) > 0 && foundTokens[0] != nil {
		refreshTokenStr = foundTokens[0].RefreshToken
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshTokenStr,
		UserID:       userID,
	}
	ctx = requestdata.WithRequestData(ctx, rd)
	return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
