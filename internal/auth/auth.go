package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
	"machine-sales-backend/internal/store"
)

// ErrInvalidCredentials is returned on login with an unknown username or a
// wrong password. Callers map it to 401 without revealing which one it was.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service issues and validates bearer credentials for mutating API calls.
type Service struct {
	db       *gorm.DB
	secret   []byte
	lifespan time.Duration
	log      *logrus.Logger
}

// NewService creates an auth service backed by the users table.
func NewService(db *gorm.DB, secret string, lifespan time.Duration, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{db: db, secret: []byte(secret), lifespan: lifespan, log: log}
}

// Register creates a new user account with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "username is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, &store.ValidationError{Fields: fields}
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		return nil, &store.StorageError{Op: "register user", Err: err}
	}
	if existing > 0 {
		return nil, &store.ConflictError{Message: "username already taken"}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, &store.StorageError{Op: "hash password", Err: err}
	}
	user := model.User{Username: username, Password: hash, Role: "user"}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, &store.StorageError{Op: "register user", Err: err}
	}
	return &user, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", &store.StorageError{Op: "login", Err: err}
	}
	if err := ComparePassword(user.Password, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return GenerateToken(s.secret, s.lifespan, user.ID, user.Username, user.Role)
}

// Validate checks a bearer token and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	return ParseToken(s.secret, tokenString)
}

// Bootstrap creates the default admin account when no row with that username
// exists yet, mirroring first-run provisioning.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user := model.User{Username: username, Password: hash, Role: "admin"}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"username": username}).Info("default admin account created")
	return nil
}
