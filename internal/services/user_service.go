package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alumni/internal/models"
	"alumni/internal/utils"

	"gorm.io/gorm"
)

// UserService covers registration, authentication, profile edits and alumni search.
type UserService struct {
	db    *gorm.DB
	cache *utils.Cache
}

func NewUserService(db *gorm.DB, cache *utils.Cache) *UserService {
	return &UserService{db: db, cache: cache}
}

// Register creates an account unless the email is already taken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Batch:        strings.TrimSpace(in.Batch),
		Company:      strings.TrimSpace(in.Company),
		ProfileImage: models.DefaultProfileImage,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// the unique index closes the gap between the check above and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// CurrentIdentity resolves the user id held by a session. A nil user with a
// nil error means there is no identity: no id, or the row is gone.
func (s *UserService) CurrentIdentity(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	user, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// UpdateProfile overwrites name, batch, company and role unconditionally.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) error {
	updates := map[string]interface{}{
		"name":    in.Name,
		"batch":   in.Batch,
		"company": in.Company,
		"role":    in.Role,
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	user.Name = in.Name
	user.Batch = in.Batch
	user.Company = in.Company
	user.Role = in.Role

	// author names appear in the feed
	s.cache.Delete(feedCacheKey)
	return nil
}

// Search 按姓名、届别、公司组合筛选校友：姓名和公司为不区分大小写的子串匹配，届别精确匹配
func (s *UserService) Search(ctx context.Context, in SearchInput) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})

	if in.Name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) ESCAPE '!'", containsPattern(in.Name))
	}
	if in.Batch != "" {
		query = query.Where("batch = ?", in.Batch)
	}
	if in.Company != "" {
		query = query.Where("LOWER(company) LIKE LOWER(?) ESCAPE '!'", containsPattern(in.Company))
	}

	var users []models.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
