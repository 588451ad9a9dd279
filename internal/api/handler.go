package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/i18n"
	"github.com/terraincognita07/lunalog/internal/services"
	"go.uber.org/zap"
)

const (
	authCookieName       = "lunalog_auth"
	contextUserKey       = "user"
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour

	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	logger       *zap.Logger
	translator   *i18n.Manager
	now          func() time.Time

	authService       *services.AuthService
	onboardingService *services.OnboardingService
	settingsService   *services.SettingsService
	periodService     *services.PeriodService
	cycleService      *services.CycleService

	loginLimiter *loginLimiter
}

type Options struct {
	SecretKey     string
	Location      *time.Location
	CookieSecure  bool
	OverlapPolicy services.OverlapPolicy
	Logger        *zap.Logger
}

func NewHandler(repos *db.Repositories, options Options) (*Handler, error) {
	if repos == nil {
		return nil, errors.New("repositories are required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	location := options.Location
	if location == nil {
		location = time.Local
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		secretKey:    []byte(options.SecretKey),
		location:     location,
		cookieSecure: options.CookieSecure,
		logger:       logger,
		translator:   i18n.Default(),
		now:          time.Now,

		authService:       services.NewAuthService(repos.Users),
		onboardingService: services.NewOnboardingService(repos.Users),
		settingsService:   services.NewSettingsService(repos.Settings),
		periodService:     services.NewPeriodService(repos.Periods, options.OverlapPolicy),
		cycleService:      services.NewCycleService(repos.Periods, repos.Settings),

		loginLimiter: newLoginLimiter(loginAttemptsLimit, loginAttemptsWindow),
	}, nil
}
