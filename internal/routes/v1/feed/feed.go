package routesV1Feed

import (
	"net/http"

	"github.com/swipenest/swipenest/internal/entity"
	authUseCase "github.com/swipenest/swipenest/internal/usecase/auth"
	feedUseCase "github.com/swipenest/swipenest/internal/usecase/feed"
	"github.com/swipenest/swipenest/pkg/http_util"
	"github.com/labstack/echo"
)

func GetFeedHandler(c echo.Context, feedCase feedUseCase.IFeedUseCase, authCase authUseCase.IAuthUseCase) error {
	request, err := http_util.Decode[entity.FeedRequest](c)

	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	problems := request.Validate(c.Request().Context())

	if len(problems) != 0 {
		return http_util.ProblemsResponse[entity.FeedResponse](c, problems)
	}

	user, err := authCase.GetUserFromJWTRequest(c)

	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	page := feedCase.AssemblePage(c.Request().Context(), user.ID, request)

	status := http.StatusOK
	if page.State == entity.FeedStateError {
		// Still a structured payload: the client offers a retry
		// action instead of a dead end.
		status = http.StatusServiceUnavailable
	}

	return http_util.Encode(c, status, http_util.HTTPResponse[entity.FeedResponse]{
		Message: "Feed assembled",
		Data:    *page,
	})
}

func SwipeHandler(c echo.Context, feedCase feedUseCase.IFeedUseCase, authCase authUseCase.IAuthUseCase) error {
	request, err := http_util.Decode[entity.SwipeRequest](c)

	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	problems := request.Validate(c.Request().Context())

	if len(problems) != 0 {
		return http_util.ProblemsResponse[entity.SwipeResponse](c, problems)
	}

	user, err := authCase.GetUserFromJWTRequest(c)

	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	targetID := c.Param("id")
	if targetID == "" {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	direction, _ := entity.ParseDirection(request.Direction)

	targetType := entity.TargetType(request.TargetType)
	if targetType == "" {
		targetType = entity.TargetListing
	}

	// Fire-and-forget: the queue owns persistence, the response never
	// waits on the network write.
	feedCase.Swipe(user.ID, targetID, targetType, direction)

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe queued",
		Data: entity.SwipeResponse{
			TargetID:  targetID,
			Direction: direction.String(),
			Queued:    true,
		},
	})
}
