package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/complaint"
)

type complaintApi struct {
	svc      complaint.ServiceInterface
	validate *validator.Validate
}

func registerComplaintAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc complaint.ServiceInterface, validate *validator.Validate) {
	api := complaintApi{svc: svc, validate: validate}

	cg := g.Group("/complaints", jwt)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *complaintApi) create(ctx echo.Context) error {
	var data complaint.NewComplaint
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComplaint")
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), sessionUserID(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating complaint")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *complaintApi) query(ctx echo.Context) error {
	filter := new(complaint.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []complaint.Complaint{})
	}
	filter.Clean()

	complaints, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx, complaint.OrderingFields))
	if err != nil {
		return errors.Wrap(err, "querying complaints")
	}
	if complaints == nil {
		complaints = []complaint.Complaint{}
	}
	return ctx.JSON(http.StatusOK, complaints)
}

func (api *complaintApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting complaint")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *complaintApi) update(ctx echo.Context) error {
	var data complaint.UpdateComplaint
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateComplaint")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), sessionUserID(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating complaint")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *complaintApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting complaint")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *complaintApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting complaints")
	}
	return ctx.NoContent(http.StatusNoContent)
}
