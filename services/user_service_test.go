package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"foodgram-backend/models"
)

func (s *ServiceTestSuite) TestSubscribeLifecycle() {
	s.createRecipe(s.author, "Первое")
	s.createRecipe(s.author, "Второе")
	s.createRecipe(s.author, "Третье")

	limit := 2
	sub, err := s.users.Subscribe(s.ctx, s.viewer.ID, s.author.ID, &limit)
	s.Require().NoError(err)
	s.Equal(s.author.ID, sub.ID)
	s.True(sub.IsSubscribed)
	s.Len(sub.Recipes, 2)
	s.Equal(int64(3), sub.RecipesCount)

	_, err = s.users.Subscribe(s.ctx, s.viewer.ID, s.author.ID, nil)
	var conflict models.ErrorConflict
	s.True(errors.As(err, &conflict))

	_, err = s.users.Subscribe(s.ctx, s.viewer.ID, s.viewer.ID, nil)
	s.True(errors.As(err, &conflict))

	_, err = s.users.Subscribe(s.ctx, s.viewer.ID, 4242, nil)
	var notFound models.ErrorNotFound
	s.True(errors.As(err, &notFound))

	subs, total, err := s.users.GetSubscriptions(s.ctx, s.viewer.ID, &models.SubscriptionListParams{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(subs, 1)
	s.Len(subs[0].Recipes, 3)

	zero := 0
	subs, _, err = s.users.GetSubscriptions(s.ctx, s.viewer.ID, &models.SubscriptionListParams{RecipesLimit: &zero})
	s.Require().NoError(err)
	s.Empty(subs[0].Recipes)
	s.NotNil(subs[0].Recipes)

	user, err := s.users.GetUser(s.ctx, s.viewer.ID, s.author.ID)
	s.Require().NoError(err)
	s.True(user.IsSubscribed)

	s.Require().NoError(s.users.Unsubscribe(s.ctx, s.viewer.ID, s.author.ID))
	err = s.users.Unsubscribe(s.ctx, s.viewer.ID, s.author.ID)
	s.True(errors.As(err, &conflict))
}

func (s *ServiceTestSuite) TestGetUsersPaginates() {
	users, total, err := s.users.GetUsers(s.ctx, 0, &models.PageParams{Page: 2, Limit: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(users, 1)
	s.Equal("viewer", users[0].Username)
	s.Nil(users[0].Avatar)
}

func (s *ServiceTestSuite) TestAvatarLifecycle() {
	res, err := s.users.UpdateAvatar(s.ctx, s.viewer.ID, models.AvatarRequest{Avatar: testImage})
	s.Require().NoError(err)
	s.True(strings.HasPrefix(res.Avatar, "http://testserver/media/users/"))

	user, err := s.users.GetUser(s.ctx, 0, s.viewer.ID)
	s.Require().NoError(err)
	s.Require().NotNil(user.Avatar)
	s.Equal(res.Avatar, *user.Avatar)

	path := filepath.Join(s.images.Root, filepath.FromSlash(strings.TrimPrefix(res.Avatar, "http://testserver/media/")))
	_, err = os.Stat(path)
	s.Require().NoError(err)

	s.Require().NoError(s.users.DeleteAvatar(s.ctx, s.viewer.ID))
	_, err = os.Stat(path)
	s.True(os.IsNotExist(err))

	user, err = s.users.GetUser(s.ctx, 0, s.viewer.ID)
	s.Require().NoError(err)
	s.Nil(user.Avatar)

	_, err = s.users.UpdateAvatar(s.ctx, s.viewer.ID, models.AvatarRequest{Avatar: "garbage"})
	var verr models.ErrorValidation
	s.True(errors.As(err, &verr))
}

func (s *ServiceTestSuite) TestRegisterLoginAndSetPassword() {
	user, err := s.auth.Register(s.ctx, models.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Кок",
		LastName:  "Поваров",
		Password:  "old-password",
	})
	s.Require().NoError(err)
	s.Equal("cook", user.Username)
	s.False(user.IsSubscribed)

	_, err = s.auth.Register(s.ctx, models.RegisterRequest{Email: "cook@example.com", Username: "other", Password: "x"})
	var verr models.ErrorValidation
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields, "email")

	_, err = s.auth.Register(s.ctx, models.RegisterRequest{Email: "other@example.com", Username: "cook", Password: "x"})
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields, "username")

	token, err := s.auth.Login(s.ctx, models.LoginRequest{Email: "cook@example.com", Password: "old-password"})
	s.Require().NoError(err)
	s.NotEmpty(token.AuthToken)

	err = s.users.SetPassword(s.ctx, user.ID, models.SetPasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password"})
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields, "current_password")

	s.Require().NoError(s.users.SetPassword(s.ctx, user.ID, models.SetPasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}))

	_, err = s.auth.Login(s.ctx, models.LoginRequest{Email: "cook@example.com", Password: "old-password"})
	s.True(errors.As(err, &verr))
	_, err = s.auth.Login(s.ctx, models.LoginRequest{Email: "cook@example.com", Password: "new-password"})
	s.NoError(err)
}
