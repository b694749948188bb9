package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
)

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, created, err := env.users.Login(ctx, LoginInput{Name: "  kim "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "kim", user.Name)

	again, created, err := env.users.Login(ctx, LoginInput{Name: "kim"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	_, _, err = env.users.Login(ctx, LoginInput{Name: "   "})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "name", verr.Fields[0].Field)

	chat := int64(77)
	require.NoError(t, env.users.LinkTelegram(ctx, user, TelegramInput{ChatID: &chat}))
	got, err := env.users.GetByName(ctx, "kim")
	require.NoError(t, err)
	require.NotNil(t, got.TelegramChatID)
	assert.Equal(t, chat, *got.TelegramChatID)
}
