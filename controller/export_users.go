package controller

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/billingcat/userapi/model"
	"github.com/billingcat/userapi/worker"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv; charset=utf-8"
)

var exportHeader = []string{"ID", "Name", "Surname", "Email", "Phone number", "Active", "Created at"}

func exportRow(u *model.User) []string {
	return []string{
		u.ID.String(),
		u.Name,
		u.Surname,
		u.Email,
		u.PhoneNumber,
		strconv.FormatBool(u.Active),
		u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// apiUserExport handles GET /api/users/export?format=xlsx|csv. It accepts the
// same filter parameters as the listing and exports all matching users.
func (ctrl *controller) apiUserExport(c echo.Context) error {
	_, filter, ae := decodeListQuery(c)
	if ae != nil {
		return respond(c, http.StatusBadRequest, ae)
	}
	format := c.QueryParam("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "csv" {
		return respond(c, http.StatusBadRequest, apiError("bad_query", "format must be xlsx or csv"))
	}

	users, err := worker.Do(c.Request().Context(), ctrl.pool, "export_users",
		func(ctx context.Context) ([]model.User, error) {
			return ctrl.model.ListAllUsers(ctx, filter)
		})
	if err != nil {
		return respondStorageError(c, err, "could not load users")
	}

	var (
		buf  *bytes.Buffer
		mime string
	)
	switch format {
	case "csv":
		buf, err = writeUsersCSV(users)
		mime = mimeCSV
	default:
		buf, err = writeUsersXLSX(users)
		mime = mimeXLSX
	}
	if err != nil {
		return ErrInternal(fmt.Errorf("cannot write %s export: %w", format, err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="users-%s.%s"`, time.Now().UTC().Format("20060102"), format))
	return c.Blob(http.StatusOK, mime, buf.Bytes())
}

func writeUsersCSV(users []model.User) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range users {
		if err := w.Write(exportRow(&users[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}

func writeUsersXLSX(users []model.User) (*bytes.Buffer, error) {
	const sheet = "Users"
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}
	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}
	for i := range users {
		u := &users[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			u.ID.String(),
			u.Name,
			u.Surname,
			u.Email,
			u.PhoneNumber,
			u.Active,
			u.CreatedAt.UTC(),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}
