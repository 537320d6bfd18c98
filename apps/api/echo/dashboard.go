package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/dashboard"
	"github.com/alramz/cxdash/core/user"
)

type dashboardApi struct {
	svc dashboard.ServiceInterface
}

func registerDashboardAPI(g *echo.Group, optionalAuth, jwt echo.MiddlewareFunc, svc dashboard.ServiceInterface) {
	api := dashboardApi{svc: svc}

	g.GET("/dashboard/:period", api.summary, optionalAuth)
	g.POST("/dashboard/:period/report", api.sendReport, jwt, roleMiddleware(user.RoleManager))
}

type ReportResponse struct {
	Recipients int `json:"recipients"`
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Summary(ctx.Request().Context(), period))
}

func (api *dashboardApi) sendReport(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.SendReport(ctx.Request().Context(), period)
	if err != nil {
		return errors.Wrap(err, "sending report")
	}
	return ctx.JSON(http.StatusAccepted, ReportResponse{Recipients: n})
}
