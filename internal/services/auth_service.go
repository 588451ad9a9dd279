package services

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/terraincognita07/lunalog/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrWeakPassword           = errors.New("weak password")
	ErrUserNotFound           = errors.New("user not found")
	ErrPasswordUnchanged      = errors.New("new password matches the current one")
)

const maxTelegramChatIDLength = 64

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	FindByID(userID uint) (models.User, bool, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	UpdateTelegramChatID(userID uint, chatID string) error
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

func (service *AuthService) Register(emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" || strings.TrimSpace(password) == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailAlreadyRegistered
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    service.now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" || password == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// ResetPassword replaces the stored hash. A temporary password skips the
// strength check and forces a change on next login.
func (service *AuthService) ResetPassword(emailRaw string, password string, temporary bool) error {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" || password == "" {
		return ErrAuthCredentialsInvalid
	}
	if !temporary {
		if err := ValidatePasswordStrength(password); err != nil {
			return err
		}
	}
	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(user.ID, string(passwordHash), temporary)
}

// ChangePassword verifies the current password and stores next, clearing a
// pending forced change.
func (service *AuthService) ChangePassword(user *models.User, current string, next string) error {
	if user == nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrAuthCredentialsInvalid
	}
	if current == next {
		return ErrPasswordUnchanged
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(user.ID, string(passwordHash), false); err != nil {
		return err
	}
	user.PasswordHash = string(passwordHash)
	user.MustChangePassword = false
	return nil
}

// SetTelegramChat stores the chat reminders are delivered to. An empty value
// falls back to the server-wide default chat.
func (service *AuthService) SetTelegramChat(userID uint, chatID string) (string, error) {
	chatID = strings.TrimSpace(chatID)
	if len(chatID) > maxTelegramChatIDLength || strings.ContainsAny(chatID, " \t\r\n") {
		validation := &ValidationError{}
		validation.add("telegram_chat_id", "must be a chat id or @channel name")
		return "", validation
	}
	if err := service.users.UpdateTelegramChatID(userID, chatID); err != nil {
		return "", err
	}
	return chatID, nil
}
