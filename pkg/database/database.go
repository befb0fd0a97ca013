package database

import (
	"errors"
	"fmt"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	applog "tachyon_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Driver errors become gorm sentinels (gorm.ErrDuplicatedKey et al.)
		// so services can branch on them without matching MySQL error codes.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	applog.Log.Info("database connection established",
		zap.String("host", cfg.Host),
		zap.String("db", cfg.DBName),
	)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.PracticeSession{},
		&model.Attempt{},
		&model.Streak{},
		&model.Points{},
		&model.Badge{},
		&model.PerformanceSummary{},
		&model.Bookmark{},
		&model.Doubt{},
		&model.OTPVerification{},
		&model.Lecture{},
	)
	if err != nil {
		return err
	}
	applog.Log.Info("database migration completed")
	return seed(db)
}

// seed creates the bootstrap admin account if no admin exists yet. The
// password must be changed on first login; everything else is provisioned
// through the API.
func seed(db *gorm.DB) error {
	var admin model.User
	err := db.Where("role = ?", model.Admin).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe-Now-1"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin = model.User{
		Name:     "Platform Admin",
		Email:    "admin@tachyon.local",
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	applog.Log.Warn("seeded default admin account, change its password",
		zap.String("email", admin.Email),
	)
	return nil
}
