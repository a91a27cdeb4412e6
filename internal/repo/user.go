package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/tokens"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTokenRevoked = errors.New("token expired or revoked")

type UserRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SaveRefresh stores the hash of a freshly issued refresh token.
func (r *UserRepo) SaveRefresh(ctx context.Context, userID uuid.UUID, rawToken, jti string, exp time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		Token:     tokens.Sha256Hex(rawToken),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: exp,
	}).Error
}

// RotateRefresh revokes the token identified by oldJTI and stores its
// replacement in one transaction. rawOld must hash to the stored value.
func (r *UserRepo) RotateRefresh(ctx context.Context, oldJTI, rawOld string, next models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.RefreshToken
		if err := tx.Where("jti = ?", oldJTI).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if current.Revoked || current.ExpiresAt.Before(time.Now()) || current.Token != tokens.Sha256Hex(rawOld) {
			return ErrTokenRevoked
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}

		next.Token = tokens.Sha256Hex(next.Token)
		return tx.Create(&next).Error
	})
}

func (r *UserRepo) RevokeRefresh(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}

func (r *UserRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}
