// Package services contains server-side business logic. This file implements
// UserService, which registers users, updates their credentials and profile,
// and exchanges email/password for a signed access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past this many bytes.
const maxPasswordBytes = 72

// RegisterInput carries the registration form. Empty strings count as absent.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	UserType  string
}

// UpdateInput identifies a user by Email and lists the values to overwrite.
// Empty New* fields leave the stored value untouched.
type UpdateInput struct {
	Email        string
	NewEmail     string
	NewPassword  string
	NewFirstName string
	NewLastName  string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	logger                      logging.Logger
	validate                    *validator.Validate
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
	dummyHash                   []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*UserService, error) {
	s := &UserService{
		db:                          db,
		repomanager:                 m,
		logger:                      logger,
		validate:                    validator.New(),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
	// compared against when the email is unknown, so both login failures cost one bcrypt check
	hash, err := bcrypt.GenerateFromPassword([]byte("shopkeeper-dummy-password"), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	s.dummyHash = hash
	return s, nil
}

// Register validates in, stores a new user with a hashed password and
// returns it with the generated id and timestamps.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.UserType == "" {
		return nil, common.ErrRequiredFields
	}
	if utf8.RuneCountInString(in.Password) < common.MinPasswordLength {
		return nil, common.ErrPasswordTooShort
	}
	if !s.validEmail(in.Email) {
		return nil, common.ErrInvalidEmail
	}

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, in.Email)
		if err == nil {
			return common.ErrEmailInUse
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if len(in.Password) > maxPasswordBytes {
			return common.ErrPasswordTooLong
		}
		hash, err := s.hashPassword(in.Password)
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, &models.User{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Password:  hash,
			UserType:  in.UserType,
			IsAdmin:   in.UserType == common.AdminUserType,
		})
		return err
	})

	if err != nil {
		var reason *common.Error
		switch {
		case errors.As(err, &reason):
			return nil, reason
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrEmailInUse
		}
		s.logger.Error(ctx, "register failed", "email", in.Email, "error", err)
		return nil, common.ErrRegisterFailed
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "is_admin", created.IsAdmin)
	return created, nil
}

// Update applies the non-empty New* fields of in to the user identified by
// in.Email. A new password is always stored hashed.
func (s *UserService) Update(ctx context.Context, in UpdateInput) (*models.User, error) {
	if in.Email == "" {
		return nil, common.ErrEmailRequired
	}
	if in.NewEmail != "" && !s.validEmail(in.NewEmail) {
		return nil, common.ErrInvalidEmail
	}

	changes := models.UserChanges{
		Email:     in.NewEmail,
		FirstName: in.NewFirstName,
		LastName:  in.NewLastName,
	}

	if in.NewPassword != "" {
		if utf8.RuneCountInString(in.NewPassword) < common.MinPasswordLength {
			return nil, common.ErrPasswordTooShort
		}
		if len(in.NewPassword) > maxPasswordBytes {
			return nil, common.ErrPasswordTooLong
		}
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetUserByEmail(ctx, in.Email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return err
		}

		if in.NewPassword != "" {
			if changes.Password, err = s.hashPassword(in.NewPassword); err != nil {
				return err
			}
		}

		updated, err = repo.Update(ctx, user.ID, changes)
		return err
	})

	if err != nil {
		var reason *common.Error
		switch {
		case errors.As(err, &reason):
			return nil, reason
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrEmailInUse
		}
		s.logger.Error(ctx, "update failed", "email", in.Email, "error", err)
		return nil, common.ErrUpdateFailed
	}

	s.logger.Info(ctx, "user updated", "user_id", updated.ID)
	return updated, nil
}

// Login checks the credentials and mints an access token whose subject is
// the user id. Unknown email and wrong password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, common.ErrCredentialsNeeded
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrServerFailure
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "user_id", user.ID, "error", err)
		return nil, common.ErrServerFailure
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", id, "error", err)
		return nil, common.ErrServerFailure
	}
	return user, nil
}

func (s *UserService) validEmail(email string) bool {
	return s.validate.Var(email, "email") == nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
