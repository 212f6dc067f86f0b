package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/models"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/security"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/session"
)

var defaultTokenKey = []byte("healthcare-buddy-session-key")

const tokenLifetime = 24 * time.Hour

// Claims identifies the session owner in a signed token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service owns credential checks and profile/goals persistence.
type Service struct {
	db       *gorm.DB
	tokenKey []byte
}

// New builds an auth service over db. A nil key falls back to the built-in
// signing key.
func New(db *gorm.DB, tokenKey []byte) *Service {
	if tokenKey == nil {
		tokenKey = defaultTokenKey
	}
	return &Service{db: db, tokenKey: tokenKey}
}

// Register creates a new account with a fresh salt and hashed password and an
// empty goals row, then opens a session for it. A taken username yields
// errs.ErrUserExists.
func (s *Service) Register(username, password, name string) (*session.Session, error) {
	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, errs.ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Storage("register: check user existence", err)
	}

	salt, err := security.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password, salt)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Name:         name,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.HealthGoals{Username: username}).Error
	})
	if err != nil {
		return nil, errs.Storage("register: create user", err)
	}

	return s.openSession(&user)
}

// Login verifies the password against the stored hash and salt. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(username, password string) (*session.Session, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errs.Storage("login: load user", err)
	}

	if !security.VerifyPassword(password, user.PasswordHash, user.Salt) {
		return nil, errs.ErrInvalidCredentials
	}

	return s.openSession(&user)
}

// Resume rebuilds a session from a previously issued token without asking for
// the password again. Expired or tampered tokens fail as bad credentials.
func (s *Service) Resume(token string) (*session.Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.tokenKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errs.ErrInvalidCredentials
	}

	var user models.User
	err = s.db.Where("username = ?", claims.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errs.Storage("resume: load user", err)
	}

	sess, err := s.openSession(&user)
	if err != nil {
		return nil, err
	}
	sess.Token = token
	return sess, nil
}

// LoadProfile returns the stored profile for username.
func (s *Service) LoadProfile(username string) (session.Profile, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Profile{}, errs.ErrUserNotFound
	}
	if err != nil {
		return session.Profile{}, errs.Storage("load profile", err)
	}
	return profileOf(&user), nil
}

// SaveProfile updates the user's profile attributes and mirrors the target
// weight into the goals row so both stay in step.
func (s *Service) SaveProfile(username string, profile session.Profile) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("username = ?", username).Updates(map[string]interface{}{
			"name":          profile.Name,
			"age":           profile.Age,
			"gender":        profile.Gender,
			"height":        profile.Height,
			"target_weight": profile.TargetWeight,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrUserNotFound
		}
		return tx.Model(&models.HealthGoals{}).Where("username = ?", username).
			Update("target_weight", profile.TargetWeight).Error
	})
	if errors.Is(err, errs.ErrUserNotFound) {
		return err
	}
	if err != nil {
		return errs.Storage("save profile", err)
	}
	return nil
}

// LoadGoals returns the stored goals row, or the zero row when none exists.
func (s *Service) LoadGoals(username string) (models.HealthGoals, error) {
	var goals models.HealthGoals
	err := s.db.Where("username = ?", username).First(&goals).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.HealthGoals{Username: username}, nil
	}
	if err != nil {
		return models.HealthGoals{}, errs.Storage("load goals", err)
	}
	return goals, nil
}

// SaveGoals replaces the user's goals row.
func (s *Service) SaveGoals(goals models.HealthGoals) error {
	if err := s.db.Save(&goals).Error; err != nil {
		return errs.Storage("save goals", err)
	}
	return nil
}

func (s *Service) openSession(user *models.User) (*session.Session, error) {
	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenKey)
	if err != nil {
		return nil, errs.Configuration("sign session token", err)
	}

	goals, err := s.LoadGoals(user.Username)
	if err != nil {
		return nil, err
	}

	return &session.Session{
		Username: user.Username,
		Token:    token,
		Profile:  profileOf(user),
		Goals:    goals,
	}, nil
}

func profileOf(user *models.User) session.Profile {
	return session.Profile{
		Name:         user.Name,
		Age:          user.Age,
		Gender:       user.Gender,
		Height:       user.Height,
		TargetWeight: user.TargetWeight,
	}
}
