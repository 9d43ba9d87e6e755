package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core"
	"github.com/trezcool/jarida/core/org"
)

type orgApi struct {
	svc *org.Service
}

// registerOrgAPI mounts the district/school/class hierarchy CRUD. Reads are
// open to any authenticated user; writes are admin only.
func registerOrgAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *org.Service) {
	api := orgApi{svc: svc}

	dg := g.Group("/districts", jwt)
	dg.GET("", api.queryDistricts)
	dg.GET("/:id", api.retrieveDistrict)
	dg.GET("/:id/schools", api.querySchools)
	dg.POST("", api.createDistrict, adminMiddleware())
	dg.PUT("/:id", api.updateDistrict, adminMiddleware())
	dg.DELETE("/:id", api.destroyDistrict, adminMiddleware())

	sg := g.Group("/schools", jwt)
	sg.GET("/:id", api.retrieveSchool)
	sg.GET("/:id/classes", api.queryClasses)
	sg.POST("", api.createSchool, adminMiddleware())
	sg.PUT("/:id", api.updateSchool, adminMiddleware())
	sg.DELETE("/:id", api.destroySchool, adminMiddleware())

	cg := g.Group("/classes", jwt)
	cg.GET("/:id", api.retrieveClass)
	cg.POST("", api.createClass, adminMiddleware())
	cg.PUT("/:id", api.updateClass, adminMiddleware())
	cg.DELETE("/:id", api.destroyClass, adminMiddleware())
}

func (api *orgApi) createDistrict(ctx echo.Context) error {
	var data org.NewDistrict
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDistrict")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	d, err := api.svc.CreateDistrict(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating district")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *orgApi) queryDistricts(ctx echo.Context) error {
	districts, err := api.svc.QueryDistricts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying districts")
	}
	return ctx.JSON(http.StatusOK, districts)
}

func (api *orgApi) retrieveDistrict(ctx echo.Context) error {
	d, err := api.svc.GetDistrict(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == org.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting district")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *orgApi) updateDistrict(ctx echo.Context) error {
	var data org.NewDistrict
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDistrict")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	d, err := api.svc.UpdateDistrict(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == org.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating district")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *orgApi) destroyDistrict(ctx echo.Context) error {
	if err := api.svc.DeleteDistricts(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting district")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *orgApi) createSchool(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var data org.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(reqCtx, core.Validate, api.svc); err != nil {
		return err
	}

	s, err := api.svc.CreateSchool(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *orgApi) querySchools(ctx echo.Context) error {
	schools, err := api.svc.QuerySchools(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *orgApi) retrieveSchool(ctx echo.Context) error {
	s, err := api.svc.GetSchool(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == org.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting school")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *orgApi) updateSchool(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var data org.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(reqCtx, core.Validate, api.svc); err != nil {
		return err
	}

	s, err := api.svc.UpdateSchool(reqCtx, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == org.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating school")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *orgApi) destroySchool(ctx echo.Context) error {
	if err := api.svc.DeleteSchools(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *orgApi) createClass(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var data org.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(reqCtx, core.Validate, api.svc); err != nil {
		return err
	}

	c, err := api.svc.CreateClass(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *orgApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryClasses(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *orgApi) retrieveClass(ctx echo.Context) error {
	c, err := api.svc.GetClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == org.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *orgApi) updateClass(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var data org.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(reqCtx, core.Validate, api.svc); err != nil {
		return err
	}

	c, err := api.svc.UpdateClass(reqCtx, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == org.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *orgApi) destroyClass(ctx echo.Context) error {
	if err := api.svc.DeleteClasses(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}
