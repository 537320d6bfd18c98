package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/reservation"
)

type reservationApi struct {
	svc      reservation.ServiceInterface
	validate *validator.Validate
}

func registerReservationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc reservation.ServiceInterface, validate *validator.Validate) {
	api := reservationApi{svc: svc, validate: validate}

	rg := g.Group("/reservations", jwt)
	rg.POST("", api.create)
	rg.GET("", api.query)
	rg.DELETE("", api.destroyMultiple)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
	rg.POST("/:id/rating", api.rate)
}

func (api *reservationApi) create(ctx echo.Context) error {
	var data reservation.NewReservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReservation")
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), sessionUserID(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating reservation")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *reservationApi) query(ctx echo.Context) error {
	filter := new(reservation.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []reservation.Reservation{})
	}
	filter.Clean()

	reservations, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx, reservation.OrderingFields))
	if err != nil {
		return errors.Wrap(err, "querying reservations")
	}
	if reservations == nil {
		reservations = []reservation.Reservation{}
	}
	return ctx.JSON(http.StatusOK, reservations)
}

func (api *reservationApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting reservation")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reservationApi) update(ctx echo.Context) error {
	var data reservation.UpdateReservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReservation")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	r, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating reservation")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reservationApi) rate(ctx echo.Context) error {
	var data reservation.Rating
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Rating")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	r, err := api.svc.Rate(ctx.Request().Context(), ctx.Param("id"), data.Rating)
	if err != nil {
		return errors.Wrap(err, "rating reservation")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reservationApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting reservation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *reservationApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting reservations")
	}
	return ctx.NoContent(http.StatusNoContent)
}
