package service

import (
	"errors"
	"strings"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role"`
	GoalExam   string `json:"goal_exam"`
	BatchName  string `json:"batch_name"`
	ClassLevel string `json:"class_level"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	GoalExam   string `json:"goal_exam"`
	BatchName  string `json:"batch_name"`
	ClassLevel string `json:"class_level"`
}

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Register creates a new account. Self-registration only creates students;
// mentor and operator accounts are provisioned by an admin.
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, util.NewConflict("email %s is already registered", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewInternal("looking up email", err)
	}

	role := model.Student
	if req.Role != "" && req.Role != string(model.Student) {
		return nil, util.NewInvalidInput("self-registration is limited to the student role")
	}
	if req.GoalExam != "" {
		switch model.GoalExam(req.GoalExam) {
		case model.ExamJEE, model.ExamNEET, model.ExamFoundation:
		default:
			return nil, util.NewInvalidInput("unknown goal exam: %s", req.GoalExam)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, util.NewInternal("hashing password", err)
	}

	user := &model.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Password:   string(hashed),
		Role:       role,
		GoalExam:   model.GoalExam(req.GoalExam),
		BatchName:  req.BatchName,
		ClassLevel: req.ClassLevel,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, util.NewInternal("creating user", err)
	}
	return user, nil
}

// Login checks the password and issues a JWT.
func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewUnauthorized("invalid email or password")
		}
		return nil, util.NewInternal("looking up user", err)
	}
	if user.Disabled {
		return nil, util.NewForbidden("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.NewUnauthorized("invalid email or password")
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, util.NewInternal("signing token", err)
	}
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, util.NewInternal("recording login", err)
	}
	return &LoginResponse{Token: token, User: user}, nil
}

// IssueToken signs a JWT for an already-authenticated user (OTP flow).
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return "", util.NewInternal("signing token", err)
	}
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return "", util.NewInternal("recording login", err)
	}
	return token, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.WrapDB(err, "user %d not found", userID)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.WrapDB(err, "user %d not found", userID)
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Phone != "" {
		user.Phone = strings.TrimSpace(req.Phone)
	}
	if req.GoalExam != "" {
		switch model.GoalExam(req.GoalExam) {
		case model.ExamJEE, model.ExamNEET, model.ExamFoundation:
			user.GoalExam = model.GoalExam(req.GoalExam)
		default:
			return nil, util.NewInvalidInput("unknown goal exam: %s", req.GoalExam)
		}
	}
	if req.BatchName != "" {
		user.BatchName = req.BatchName
	}
	if req.ClassLevel != "" {
		user.ClassLevel = req.ClassLevel
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, util.NewInternal("updating profile", err)
	}
	return user, nil
}
