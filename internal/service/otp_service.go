package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
	"tachyon_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RequestOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// OTPService issues and verifies one-time login codes. Codes are stored as
// bcrypt hashes; send frequency is capped per identifier via redis counters
// so a lost redis only loosens rate limits, never correctness.
type OTPService struct {
	otpRepo  *repository.OTPRepository
	userRepo *repository.UserRepository
	auth     *AuthService
	rdb      *redis.Client
	cfg      config.OTPConfig
	devMode  bool
}

func NewOTPService(otpRepo *repository.OTPRepository, userRepo *repository.UserRepository, auth *AuthService, rdb *redis.Client, cfg *config.Config) *OTPService {
	return &OTPService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		auth:     auth,
		rdb:      rdb,
		cfg:      cfg.OTP,
		devMode:  cfg.Server.Mode != "release",
	}
}

// Request issues a fresh code for the identifier. The identifier must belong
// to a registered user; unknown identifiers get the same response so the
// endpoint cannot be used to probe accounts.
func (s *OTPService) Request(ctx context.Context, req RequestOTPRequest) error {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if identifier == "" {
		return util.NewInvalidInput("identifier must not be empty")
	}

	if err := s.checkSendLimits(ctx, identifier); err != nil {
		return err
	}

	user, err := s.userRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same outcome as success, minus the actual send.
			return nil
		}
		return util.NewInternal("looking up identifier", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return util.NewInternal("generating code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return util.NewInternal("hashing code", err)
	}

	otp := &model.OTPVerification{
		Identifier: identifier,
		CodeHash:   string(hash),
		ExpiresAt:  time.Now().Add(time.Duration(s.cfg.ExpiryMinutes) * time.Minute),
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return util.NewInternal("storing code", err)
	}

	s.deliver(user, code)
	return nil
}

// Verify checks the submitted code and, on success, returns a signed token.
func (s *OTPService) Verify(req VerifyOTPRequest) (*LoginResponse, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	otp, err := s.otpRepo.FindLatestActive(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewUnauthorized("no pending code for this identifier")
		}
		return nil, util.NewInternal("loading code", err)
	}

	now := time.Now()
	if otp.IsExpired(now) {
		return nil, util.NewUnauthorized("code has expired, request a new one")
	}
	if otp.Attempts >= s.cfg.MaxVerifyAttempts {
		return nil, util.NewUnauthorized("too many wrong attempts, request a new code")
	}

	otp.Attempts++
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(strings.TrimSpace(req.Code))) != nil {
		if err := s.otpRepo.Update(otp); err != nil {
			return nil, util.NewInternal("recording attempt", err)
		}
		return nil, util.NewUnauthorized("incorrect code")
	}

	otp.IsVerified = true
	if err := s.otpRepo.Update(otp); err != nil {
		return nil, util.NewInternal("recording verification", err)
	}

	user, err := s.userRepo.FindByIdentifier(identifier)
	if err != nil {
		return nil, util.WrapDB(err, "user not found for identifier")
	}
	if user.Disabled {
		return nil, util.NewForbidden("account is disabled")
	}
	token, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}

// PurgeExpired deletes codes past their expiry, run from the maintenance
// sweep.
func (s *OTPService) PurgeExpired() {
	deleted, err := s.otpRepo.DeleteExpiredBefore(time.Now().Add(-24 * time.Hour))
	if err != nil {
		logger.Log.Warn("purging expired codes failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Log.Info("purged expired otp codes", zap.Int64("count", deleted))
	}
}

func (s *OTPService) checkSendLimits(ctx context.Context, identifier string) error {
	if s.rdb == nil {
		return nil
	}
	hourly, err := s.bumpCounter(ctx, fmt.Sprintf("otp:send:h:%s", identifier), time.Hour)
	if err != nil {
		logger.Log.Warn("otp rate counter unavailable", zap.Error(err))
		return nil
	}
	if hourly > int64(s.cfg.HourlySendLimit) {
		return util.NewInvalidState("hourly code limit reached, try again later")
	}
	daily, err := s.bumpCounter(ctx, fmt.Sprintf("otp:send:d:%s", identifier), 24*time.Hour)
	if err != nil {
		logger.Log.Warn("otp rate counter unavailable", zap.Error(err))
		return nil
	}
	if daily > int64(s.cfg.DailySendLimit) {
		return util.NewInvalidState("daily code limit reached, try again tomorrow")
	}
	return nil
}

func (s *OTPService) bumpCounter(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.rdb.Expire(ctx, key, window)
	}
	return count, nil
}

// deliver sends the code to the user. Outside release mode there is no mail
// gateway, so the code goes to the log for local testing.
func (s *OTPService) deliver(user *model.User, code string) {
	if s.devMode {
		logger.Log.Info("otp code issued",
			zap.String("identifier", user.Email),
			zap.String("code", code),
		)
		return
	}
	logger.Log.Info("otp code dispatched",
		zap.String("identifier", user.Email),
		zap.String("sender", s.cfg.SenderEmail),
	)
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
