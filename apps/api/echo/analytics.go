package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/analytics"
)

type analyticsApi struct {
	svc analytics.ServiceInterface
}

// registerAnalyticsAPI mounts the snapshot read endpoints plus the
// aggregation trigger. Platform-wide reads and the trigger are admin only;
// scoped views are open to staff, and a student may read their own view.
func registerAnalyticsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc analytics.ServiceInterface) {
	api := analyticsApi{svc: svc}

	ag := g.Group("/analytics", jwt)
	ag.POST("/run", api.run, adminMiddleware())
	ag.GET("", api.latest, adminMiddleware())
	ag.GET("/history", api.history, adminMiddleware())
	ag.GET("/districts/:id", api.districtView, staffMiddleware())
	ag.GET("/schools/:id", api.schoolView, staffMiddleware())
	ag.GET("/classes/:id", api.classView, staffMiddleware())
	ag.GET("/students/:id", api.studentView)
}

func (api *analyticsApi) run(ctx echo.Context) error {
	snap, err := api.svc.RunAggregation(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "running aggregation")
	}
	return ctx.JSON(http.StatusCreated, RunResponse{ID: snap.ID, Timestamp: snap.Timestamp.Format(time.RFC3339)})
}

func (api *analyticsApi) latest(ctx echo.Context) error {
	snap, err := api.svc.Latest(ctx.Request().Context())
	if err != nil {
		if errors.Cause(err) == analytics.ErrNoSnapshot {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting latest snapshot")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *analyticsApi) history(ctx echo.Context) error {
	snaps, err := api.svc.History(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying snapshot history")
	}
	if snaps == nil {
		snaps = []analytics.Snapshot{}
	}
	return ctx.JSON(http.StatusOK, snaps)
}

func (api *analyticsApi) districtView(ctx echo.Context) error {
	return api.levelView(ctx, api.svc.DistrictView)
}

func (api *analyticsApi) schoolView(ctx echo.Context) error {
	return api.levelView(ctx, api.svc.SchoolView)
}

func (api *analyticsApi) classView(ctx echo.Context) error {
	return api.levelView(ctx, api.svc.ClassView)
}

// studentView: a student may read their own stats; staff may read anyone's.
func (api *analyticsApi) studentView(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !(claims.IsAdmin || claims.IsTeacher || claims.Subject == ctx.Param("id")) {
		return errHttpForbidden
	}
	return api.levelView(ctx, api.svc.StudentView)
}

func (api *analyticsApi) levelView(
	ctx echo.Context,
	view func(reqCtx context.Context, id string) (analytics.LevelStats, error),
) error {
	ls, err := view(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == analytics.ErrNoSnapshot {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting level stats")
	}
	return ctx.JSON(http.StatusOK, ls)
}

type RunResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}
