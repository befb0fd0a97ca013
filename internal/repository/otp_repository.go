package repository

import (
	"time"

	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

type OTPRepository struct {
	DB *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{DB: db}
}

func (r *OTPRepository) Create(otp *model.OTPVerification) error {
	return r.DB.Create(otp).Error
}

// FindLatestActive returns the newest unverified code for the identifier.
func (r *OTPRepository) FindLatestActive(identifier string) (*model.OTPVerification, error) {
	var otp model.OTPVerification
	err := r.DB.Where("identifier = ? AND is_verified = ?", identifier, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *OTPRepository) Update(otp *model.OTPVerification) error {
	return r.DB.Save(otp).Error
}

func (r *OTPRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	res := r.DB.Unscoped().Where("expires_at < ?", cutoff).Delete(&model.OTPVerification{})
	return res.RowsAffected, res.Error
}
