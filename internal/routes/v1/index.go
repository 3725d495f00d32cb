package routesV1

import (
	"github.com/swipenest/swipenest/internal/middleware"
	userRepo "github.com/swipenest/swipenest/internal/repository/user"
	routesV1Auth "github.com/swipenest/swipenest/internal/routes/v1/auth"
	routesV1Feed "github.com/swipenest/swipenest/internal/routes/v1/feed"
	authUseCase "github.com/swipenest/swipenest/internal/usecase/auth"
	feedUseCase "github.com/swipenest/swipenest/internal/usecase/feed"
	"github.com/labstack/echo"
)

func InitV1Routes(e *echo.Echo, users userRepo.IUserRepo, authCase authUseCase.IAuthUseCase, feedCase feedUseCase.IFeedUseCase) {
	v1 := e.Group("/v1")

	v1.POST("/auth/sign-up", func(c echo.Context) error {
		return routesV1Auth.SignUpHandler(c, authCase)
	})
	v1.POST("/auth/sign-in", func(c echo.Context) error {
		return routesV1Auth.SignInHandler(c, authCase)
	})

	feed := v1.Group("/feed", middleware.JWTMiddleware(users))
	feed.GET("", func(c echo.Context) error {
		return routesV1Feed.GetFeedHandler(c, feedCase, authCase)
	})
	feed.POST("/swipe/:id", func(c echo.Context) error {
		return routesV1Feed.SwipeHandler(c, feedCase, authCase)
	})
}
