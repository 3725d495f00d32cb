package authUseCase

import (
	"context"
	"errors"

	"github.com/swipenest/swipenest/internal/entity"
	userRepo "github.com/swipenest/swipenest/internal/repository/user"
	"github.com/swipenest/swipenest/pkg/jwt"
	"github.com/labstack/echo"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = errors.New("unauthorized")

type IAuthUseCase interface {
	SignupUser(ctx context.Context, request entity.CreateUserRequest) (*entity.User, error)
	SignIn(ctx context.Context, email, username, password string) (string, error)
	GetUserFromJWTRequest(c echo.Context) (*entity.User, error)
}

type authUseCase struct {
	userRepo userRepo.IUserRepo
}

func New(userRepo userRepo.IUserRepo) IAuthUseCase {
	return &authUseCase{
		userRepo: userRepo,
	}
}

func (p *authUseCase) SignupUser(ctx context.Context, authData entity.CreateUserRequest) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(authData.Password+authData.Email), 12)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Name:     authData.Name,
		Email:    authData.Email,
		Username: authData.Username,
		Password: string(hashedPassword),
		Tier:     entity.TierFree,
	}

	return p.userRepo.CreateUser(ctx, &user)
}

func (p *authUseCase) SignIn(ctx context.Context, email, username, password string) (string, error) {
	user, err := p.userRepo.GetUserByUnameOrEmail(ctx, email, username)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password+user.Email)); err != nil {
		return "", ErrUnauthorized
	}

	token, err := jwt.CreateToken(int(user.ID), user.Username)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (p *authUseCase) GetUserFromJWTRequest(c echo.Context) (*entity.User, error) {
	// Routes behind the JWT middleware already carry the resolved user.
	if user, ok := c.Get("userProfile").(*entity.User); ok {
		return user, nil
	}

	claims, err := jwt.BearerClaims(c.Request().Header.Get("Authorization"))
	if err != nil {
		return nil, ErrUnauthorized
	}

	return p.userRepo.GetUserByID(c.Request().Context(), claims.UserID)
}
