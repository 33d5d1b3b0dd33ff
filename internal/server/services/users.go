// Package services contains server-side business logic. This file implements
// UserService: registration, login, email verification, and password resets.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/dbx"
	"github.com/celestia-oracle/celestia/internal/logging"
	"github.com/celestia-oracle/celestia/internal/server/auth"
	"github.com/celestia-oracle/celestia/internal/server/config"
	"github.com/celestia-oracle/celestia/internal/server/email"
	"github.com/celestia-oracle/celestia/internal/server/models"
	"github.com/celestia-oracle/celestia/internal/server/repositories/repomanager"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
	tokenBytes     = 32
)

// UserService provides account-related operations:
// - Register: create users and mint a bearer token
// - Login: verify credentials and mint a bearer token
// - VerifyEmail / ResendVerification: email-verification lifecycle
// - RequestPasswordReset / ResetPassword: password-reset lifecycle
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	mailer         email.Mailer
	logger         logging.Logger
	jwtSecret      []byte
	accessTokenTTL time.Duration
	verifyTokenTTL time.Duration
	resetTokenTTL  time.Duration
	emailTimeout   time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer email.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:             db,
		repomanager:    m,
		mailer:         mailer,
		logger:         logger,
		jwtSecret:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		verifyTokenTTL: cfg.VerifyTokenTTL,
		resetTokenTTL:  cfg.ResetTokenTTL,
		emailTimeout:   cfg.EmailTimeout,
	}
}

// Register creates an unverified user, issues a verification token in the
// same transaction, and mints a bearer token. Verification email delivery is
// best effort and never fails the registration.
func (s *UserService) Register(ctx context.Context, username, emailAddr, password string) (*models.User, string, error) {
	if err := validateRegistration(username, emailAddr, password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	var user *models.User
	var verifyToken string
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Username:     username,
			Email:        emailAddr,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, common.ErrUsernameTaken) || errors.Is(err, common.ErrEmailTaken) {
				return err
			}
			return fmt.Errorf("error creating user: %v", err)
		}
		user = u
		verifyToken, err = s.issueToken(ctx, tx, user.ID, models.TokenKindEmailVerification, s.verifyTokenTTL)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	s.deliverVerification(ctx, user, verifyToken)

	access, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	return user, access, nil
}

// Login verifies the credentials and mints a bearer token. Unknown username
// and wrong password are indistinguishable to the caller, and the unknown
// path still pays the hash-comparison cost.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", common.ErrorInternal
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	return user, access, nil
}

// Get returns the user record for an authenticated subject.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// VerifyEmail consumes a verification token and marks its owner verified.
// Re-presenting a token that already verified its owner reports
// alreadyVerified instead of an error, so double-clicked links stay friendly.
// An expired token is rejected and the consume flip is rolled back.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		ledger := s.repomanager.Tokens(tx)
		row, err := ledger.Consume(ctx, token, models.TokenKindEmailVerification)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				if s.verifiedByToken(ctx, tx, token) {
					alreadyVerified = true
					return nil
				}
				return common.ErrTokenNotFound
			}
			return fmt.Errorf("error consuming token: %v", err)
		}
		if row.ExpiresAt.Before(time.Now()) {
			return common.ErrTokenExpired
		}

		usersRepo := s.repomanager.Users(tx)
		owner, err := usersRepo.GetByID(ctx, row.UserID)
		if err != nil {
			return fmt.Errorf("error loading token owner: %v", err)
		}
		if owner.IsVerified {
			alreadyVerified = true
			return nil
		}
		return usersRepo.SetVerified(ctx, owner.ID)
	})
	if err != nil {
		return false, err
	}
	return alreadyVerified, nil
}

// ResendVerification issues a fresh verification token, invalidating any
// outstanding one. Already-verified accounts are reported without issuing.
func (s *UserService) ResendVerification(ctx context.Context, userID int64) (alreadyVerified bool, err error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotFound
		}
		return false, common.ErrorInternal
	}
	if user.IsVerified {
		return true, nil
	}

	var token string
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		token, err = s.issueToken(ctx, tx, user.ID, models.TokenKindEmailVerification, s.verifyTokenTTL)
		return err
	})
	if err != nil {
		return false, err
	}

	s.deliverVerification(ctx, user, token)
	return false, nil
}

// RequestPasswordReset issues a reset token for the account behind the email
// address. The outcome is identical whether or not the address is registered,
// so the endpoint cannot be used to enumerate accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	var token string
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		token, err = s.issueToken(ctx, tx, user.ID, models.TokenKindPasswordReset, s.resetTokenTTL)
		return err
	})
	if err != nil {
		return err
	}

	mctx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()
	if err := s.mailer.SendPasswordReset(mctx, user.Email, user.Username, token); err != nil {
		s.logger.Warn(ctx, "password reset email delivery failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the owner's password in
// the same transaction, so a failed update leaves the token spendable.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLen)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		row, err := s.repomanager.Tokens(tx).Consume(ctx, token, models.TokenKindPasswordReset)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrTokenNotFound
			}
			return fmt.Errorf("error consuming token: %v", err)
		}
		if row.ExpiresAt.Before(time.Now()) {
			return common.ErrTokenExpired
		}
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, row.UserID, hash); err != nil {
			return fmt.Errorf("error updating password: %v", err)
		}
		return nil
	})
}

// --- helpers below ---

// issueToken invalidates outstanding tokens of the kind and records a fresh
// one, all against the caller's transaction.
func (s *UserService) issueToken(ctx context.Context, tx dbx.DBTX, userID int64, kind string, ttl time.Duration) (string, error) {
	ledger := s.repomanager.Tokens(tx)
	if err := ledger.DeleteUnconsumed(ctx, userID, kind); err != nil {
		return "", fmt.Errorf("error superseding tokens: %v", err)
	}
	token, err := common.MakeRandURLString(tokenBytes)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := ledger.Create(ctx, userID, token, kind, time.Now().Add(ttl).UTC()); err != nil {
		return "", fmt.Errorf("error recording token: %v", err)
	}
	return token, nil
}

// verifiedByToken reports whether the token was already spent to verify its
// owner, which lets a repeated verification call succeed as a no-op.
func (s *UserService) verifiedByToken(ctx context.Context, tx dbx.DBTX, token string) bool {
	spent, err := s.repomanager.Tokens(tx).Find(ctx, token, models.TokenKindEmailVerification)
	if err != nil || !spent.Consumed {
		return false
	}
	owner, err := s.repomanager.Users(tx).GetByID(ctx, spent.UserID)
	return err == nil && owner.IsVerified
}

func (s *UserService) deliverVerification(ctx context.Context, user *models.User, token string) {
	mctx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()
	if err := s.mailer.SendVerification(mctx, user.Email, user.Username, token); err != nil {
		s.logger.Warn(ctx, "verification email delivery failed", "user_id", user.ID, "error", err)
	}
}

func validateRegistration(username, emailAddr, password string) error {
	if len(strings.TrimSpace(username)) < minUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters", common.ErrorValidation, minUsernameLen)
	}
	if !strings.Contains(emailAddr, "@") {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLen)
	}
	return nil
}
