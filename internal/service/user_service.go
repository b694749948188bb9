package service

import (
	"context"
	"strings"

	"study-planner/internal/model"
	"study-planner/internal/repository"
	"study-planner/internal/validate"
)

// LoginInput identifies a user by name. Unknown names are registered on the fly.
type LoginInput struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

// TelegramInput links the chat receiving the daily digest. A nil chat id unlinks it.
type TelegramInput struct {
	ChatID *int64 `json:"chat_id"`
}

// UserService wraps user-related business logic.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Login returns the user with the given name, creating it if needed.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*model.User, bool, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, false, err
	}
	return s.userRepo.FindOrCreateByName(ctx, input.Name)
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) GetByName(ctx context.Context, name string) (*model.User, error) {
	return s.userRepo.FindByName(ctx, strings.TrimSpace(name))
}

// GetByTelegramChat returns the user whose digest goes to chatID.
func (s *UserService) GetByTelegramChat(ctx context.Context, chatID int64) (*model.User, error) {
	return s.userRepo.FindByTelegramChatID(ctx, chatID)
}

func (s *UserService) LinkTelegram(ctx context.Context, user *model.User, input TelegramInput) error {
	return s.userRepo.SetTelegramChatID(ctx, user, input.ChatID)
}
