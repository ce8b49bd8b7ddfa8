package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/billingcat/userapi/model"
	"github.com/billingcat/userapi/worker"
	"github.com/go-playground/form/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageNumber = 0
	defaultLimit      = 10
)

var queryDecoder = form.NewDecoder()

// APIUser is a user as returned by the API
type APIUser struct {
	ID          uuid.UUID `json:"id" xml:"id,attr"`
	Name        string    `json:"name" xml:"name"`
	Surname     string    `json:"surname" xml:"surname"`
	Email       string    `json:"email" xml:"email"`
	PhoneNumber string    `json:"phoneNumber" xml:"phoneNumber"`
	Active      bool      `json:"active" xml:"active"`
	CreatedAt   time.Time `json:"createdAt" xml:"createdAt"`
}

// APIUserPage is one page of GET /api/users
type APIUserPage struct {
	XMLName       struct{}  `json:"-" xml:"users"`
	Content       []APIUser `json:"content" xml:"user"`
	TotalElements int64     `json:"totalElements" xml:"totalElements,attr"`
}

// APIUserCreate is the input for POST /api/users
type APIUserCreate struct {
	Name        string `json:"name" xml:"name"`
	Surname     string `json:"surname" xml:"surname"`
	Email       string `json:"email" xml:"email"`
	PhoneNumber string `json:"phoneNumber" xml:"phoneNumber"`
	Active      bool   `json:"active" xml:"active"`
}

// APIUserUpdate is the input for PUT /api/users/:id. Omitted fields stay unchanged.
type APIUserUpdate struct {
	Name        *string `json:"name,omitempty" xml:"name,omitempty"`
	Surname     *string `json:"surname,omitempty" xml:"surname,omitempty"`
	Email       *string `json:"email,omitempty" xml:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty" xml:"phoneNumber,omitempty"`
	Active      *bool   `json:"active,omitempty" xml:"active,omitempty"`
}

// APIUserActive is the input for PUT /api/users/:id/active
type APIUserActive struct {
	Active *bool `json:"active" xml:"active"`
}

type userListQuery struct {
	PageNumber    *int   `form:"pageNumber"`
	Limit         *int   `form:"limit"`
	ID            string `form:"id"`
	Name          string `form:"name"`
	Active        *bool  `form:"active"`
	CreatedAtFrom string `form:"createdAtFrom"`
	CreatedAtTo   string `form:"createdAtTo"`
}

func (ctrl *controller) apiUsersInit(e *echo.Echo) {
	api := e.Group("/api/users")
	api.GET("", ctrl.apiUserList)
	api.POST("", ctrl.apiUserCreate)
	api.GET("/export", ctrl.apiUserExport)
	api.GET("/:id", ctrl.apiUserGet)
	api.PUT("/:id", ctrl.apiUserUpdate)
	api.PUT("/:id/active", ctrl.apiUserSetActive)
	api.DELETE("/:id", ctrl.apiUserDelete)
}

func userToAPIUser(u *model.User) APIUser {
	return APIUser{
		ID:          u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
}

// decodeListQuery reads the filter and paging parameters of a listing.
func decodeListQuery(c echo.Context) (userListQuery, model.UserFilter, *APIError) {
	var (
		q   userListQuery
		f   model.UserFilter
		err error
	)
	if err = queryDecoder.Decode(&q, c.QueryParams()); err != nil {
		return q, f, apiError("bad_query", "invalid query params")
	}
	f.ID = q.ID
	f.Name = q.Name
	f.Active = q.Active
	verr := &model.ValidationError{}
	if f.CreatedAtFrom, err = model.ParseDate(q.CreatedAtFrom); err != nil {
		verr.Fields = append(verr.Fields, model.FieldError{Field: "createdAtFrom", Message: err.Error()})
	}
	if f.CreatedAtTo, err = model.ParseDate(q.CreatedAtTo); err != nil {
		verr.Fields = append(verr.Fields, model.FieldError{Field: "createdAtTo", Message: err.Error()})
	}
	if len(verr.Fields) > 0 {
		return q, f, apiValidationError(verr)
	}
	return q, f, nil
}

// apiUserList handles GET /api/users
func (ctrl *controller) apiUserList(c echo.Context) error {
	q, filter, ae := decodeListQuery(c)
	if ae != nil {
		return respond(c, http.StatusBadRequest, ae)
	}

	pageNumber := defaultPageNumber
	if q.PageNumber != nil {
		pageNumber = *q.PageNumber
	}
	limit := defaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	verr := &model.ValidationError{}
	if pageNumber < 0 {
		verr.Fields = append(verr.Fields, model.FieldError{Field: "pageNumber", Message: "pageNumber must not be negative"})
	}
	if limit < 1 {
		verr.Fields = append(verr.Fields, model.FieldError{Field: "limit", Message: "limit must be at least 1"})
	}
	if len(verr.Fields) > 0 {
		return respond(c, http.StatusBadRequest, apiValidationError(verr))
	}
	if maxSize := ctrl.model.Config.MaxPageSize; maxSize > 0 && limit > maxSize {
		limit = maxSize
	}

	page, err := worker.Do(c.Request().Context(), ctrl.pool, "find_users",
		func(ctx context.Context) (model.UserPage, error) {
			return ctrl.model.FindUsers(ctx, filter, pageNumber, limit)
		})
	if err != nil {
		return respondStorageError(c, err, "could not load users")
	}

	items := make([]APIUser, len(page.Content))
	for i := range page.Content {
		items[i] = userToAPIUser(&page.Content[i])
	}
	return respond(c, http.StatusOK, APIUserPage{
		Content:       items,
		TotalElements: page.TotalElements,
	})
}

func parseUserID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// apiUserGet handles GET /api/users/:id
func (ctrl *controller) apiUserGet(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid id"))
	}
	u, err := worker.Do(c.Request().Context(), ctrl.pool, "get_user",
		func(ctx context.Context) (*model.User, error) {
			return ctrl.model.GetUser(ctx, id)
		})
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return respond(c, http.StatusNotFound, apiError("not_found", "user not found"))
		}
		return respondStorageError(c, err, "could not load user")
	}
	return respond(c, http.StatusOK, userToAPIUser(u))
}

// apiUserCreate handles POST /api/users
func (ctrl *controller) apiUserCreate(c echo.Context) error {
	var input APIUserCreate
	if err := c.Bind(&input); err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid request body"))
	}
	u, err := worker.Do(c.Request().Context(), ctrl.pool, "create_user",
		func(ctx context.Context) (*model.User, error) {
			return ctrl.model.CreateUser(ctx, model.UserInput{
				Name:        input.Name,
				Surname:     input.Surname,
				Email:       input.Email,
				PhoneNumber: input.PhoneNumber,
				Active:      input.Active,
			})
		})
	if err != nil {
		return respondStorageError(c, err, "could not create user")
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/users/"+u.ID.String())
	return respond(c, http.StatusCreated, userToAPIUser(u))
}

// apiUserUpdate handles PUT /api/users/:id
func (ctrl *controller) apiUserUpdate(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid id"))
	}
	var input APIUserUpdate
	if err := c.Bind(&input); err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid request body"))
	}
	upd := model.UserUpdate{
		Name:        input.Name,
		Surname:     input.Surname,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Active:      input.Active,
	}
	// reject before the request reaches a worker
	upd.Normalize()
	if err := upd.Validate(); err != nil {
		return respondStorageError(c, err, "invalid input")
	}
	err = worker.Exec(c.Request().Context(), ctrl.pool, "update_user", func(ctx context.Context) error {
		return ctrl.model.UpdateUser(ctx, id, upd)
	})
	if err != nil {
		return respondStorageError(c, err, "could not update user")
	}
	return c.NoContent(http.StatusNoContent)
}

// apiUserSetActive handles PUT /api/users/:id/active
func (ctrl *controller) apiUserSetActive(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid id"))
	}
	var input APIUserActive
	if err := c.Bind(&input); err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid request body"))
	}
	if input.Active == nil {
		return respond(c, http.StatusBadRequest, apiValidationError(&model.ValidationError{
			Fields: []model.FieldError{{Field: "active", Message: "Active is required"}},
		}))
	}
	active := *input.Active
	err = worker.Exec(c.Request().Context(), ctrl.pool, "set_user_active", func(ctx context.Context) error {
		return ctrl.model.SetUserActive(ctx, id, active)
	})
	if err != nil {
		return respondStorageError(c, err, "could not update user")
	}
	return c.NoContent(http.StatusNoContent)
}

// apiUserDelete handles DELETE /api/users/:id
func (ctrl *controller) apiUserDelete(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, apiError("bad_request", "invalid id"))
	}
	err = worker.Exec(c.Request().Context(), ctrl.pool, "delete_user", func(ctx context.Context) error {
		return ctrl.model.DeleteUser(ctx, id)
	})
	if err != nil {
		return respondStorageError(c, err, "could not delete user")
	}
	return c.NoContent(http.StatusNoContent)
}
