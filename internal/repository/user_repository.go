package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"study-planner/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindOrCreateByName returns the user with that name, creating it on first login.
// The boolean is true when the user was created.
func (r *UserRepository) FindOrCreateByName(ctx context.Context, name string) (*model.User, bool, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("name = ?", name).First(&user).Error
	switch {
	case err == nil:
		return &user, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{Name: name}
		if err := db.Create(&user).Error; err != nil {
			return nil, false, errors.Wrap(err, "create user")
		}
		return &user, true, nil
	default:
		return nil, false, errors.Wrap(err, "find user")
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, trapNotFound(err, "user", "find user")
	}
	return &user, nil
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, trapNotFound(err, "user", "find user")
	}
	return &user, nil
}

func (r *UserRepository) FindByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, trapNotFound(err, "user", "find user")
	}
	return &user, nil
}

// SetTelegramChatID links (or, with nil, unlinks) the chat that receives the daily digest.
func (r *UserRepository) SetTelegramChatID(ctx context.Context, user *model.User, chatID *int64) error {
	if err := r.db.WithContext(ctx).Model(user).Update("telegram_chat_id", chatID).Error; err != nil {
		return errors.Wrap(err, "update user")
	}
	user.TelegramChatID = chatID
	return nil
}

// ListDigestRecipients returns the users with a linked Telegram chat.
func (r *UserRepository) ListDigestRecipients(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("telegram_chat_id IS NOT NULL").Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}
