package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core"
	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/user"
)

type journalApi struct {
	svc     *journal.Service
	userSvc user.ServiceInterface
}

// registerJournalAPI mounts the diary endpoints. Students own their
// journal: they write and read their own entries only. Teachers and admins
// may read any student's entries but never write them.
func registerJournalAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *journal.Service, userSvc user.ServiceInterface) {
	api := journalApi{svc: svc, userSvc: userSvc}

	jg := g.Group("/journal", jwt)
	jg.POST("/entries", api.create)
	jg.GET("/entries", api.queryOwn)
	jg.GET("/entries/:id", api.retrieve)
	jg.DELETE("/entries/:id", api.destroy)
	jg.GET("/students/:id/entries", api.queryByStudent, staffMiddleware())
}

func (api *journalApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsStudent() {
		return errHttpForbidden
	}

	var data journal.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	entry, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *journalApi) queryOwn(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	entries, err := api.svc.QueryByOwner(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying entries")
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *journalApi) retrieve(ctx echo.Context) error {
	entry, err := api.getAccessibleEntry(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *journalApi) destroy(ctx echo.Context) error {
	entry, err := api.getAccessibleEntry(ctx)
	if err != nil {
		return err
	}

	// only the owner deletes their entries; staff access is read-only
	ctxUsr, _ := getContextUser(ctx, api.userSvc)
	if entry.OwnerID != ctxUsr.ID {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), entry.ID); err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *journalApi) queryByStudent(ctx echo.Context) error {
	entries, err := api.svc.QueryByOwner(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying entries")
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

// getAccessibleEntry fetches the entry and enforces read access: the owner,
// or staff. Inaccessible entries read as not found, never as forbidden.
func (api *journalApi) getAccessibleEntry(ctx echo.Context) (journal.Entry, error) {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return journal.Entry{}, errors.Wrap(err, "getting context user")
	}

	entry, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == journal.ErrNotFound {
			return journal.Entry{}, errHttpNotFound
		}
		return journal.Entry{}, errors.Wrap(err, "getting entry")
	}
	if entry.OwnerID != ctxUsr.ID && !(ctxUsr.IsAdmin() || ctxUsr.IsTeacher()) {
		return journal.Entry{}, errHttpNotFound
	}
	return entry, nil
}
