package controller

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestAPIUserExport_CSV(t *testing.T) {
	e, _, data := setupTestAPI(t)

	rec := doRequest(e, http.MethodGet, "/api/users/export?format=csv&name=smith", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][6] != "Created at" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != data.John.ID.String() || rows[1][5] != "true" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][1] != "Jane" || rows[2][5] != "false" || rows[2][6] != "2024-03-11T09:30:00Z" {
		t.Errorf("second row = %v", rows[2])
	}
}

func TestAPIUserExport_XLSX(t *testing.T) {
	e, _, _ := setupTestAPI(t)

	rec := doRequest(e, http.MethodGet, "/api/users/export?active=false", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != mimeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Users")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v, want header + Jane", rows)
	}
	if rows[0][1] != "Name" || rows[1][1] != "Jane" || rows[1][2] != "Smith" {
		t.Errorf("rows = %v", rows)
	}
}

func TestAPIUserExport_BadRequest(t *testing.T) {
	e, _, _ := setupTestAPI(t)

	for _, q := range []string{"format=pdf", "createdAtFrom=10.03.2024"} {
		rec := doRequest(e, http.MethodGet, "/api/users/export?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: Status = %d, want 400", q, rec.Code)
		}
	}
}
