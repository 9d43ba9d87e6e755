package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	echoapi "github.com/trezcool/jarida/apps/api/echo"
	"github.com/trezcool/jarida/core/analytics"
	"github.com/trezcool/jarida/core/user"
	testutil "github.com/trezcool/jarida/tests"
)

func Test_analyticsApi_run(t *testing.T) {
	app := setup(t)

	student := testutil.CreateStudent(t, usrRepo, "Aline M", "alinem", "aline@test.cd", "", "c1", "sc1", "d1")
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	testutil.CreateEntry(t, entryRepo, student.ID, "day one", "hello brave new world")
	testutil.CreateEntry(t, entryRepo, student.ID, "way back", "hi", time.Now().UTC().Add(-40*24*time.Hour))

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Admin required (student)", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "Admin required (teacher)", token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "Run", token: getToken(t, admin), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/analytics/run"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var resp echoapi.RunResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if resp.ID == "" {
					t.Error("failed! empty snapshot ID")
				}
				if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
					t.Errorf("failed! bad timestamp %q: %v", resp.Timestamp, err)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// the snapshot covers both entries; only the recent one is in-window
	req, rec := newAuthRequest(http.MethodGet, "/v1/analytics", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("latest failed! code = %v; want %v", rec.Code, http.StatusOK)
	}
	var snap analytics.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if snap.TotalWords != 5 || snap.TotalEntries != 2 {
		t.Errorf("snapshot totals = (%d, %d); want (5, 2)", snap.TotalWords, snap.TotalEntries)
	}
	ds, ok := snap.DistrictStats["d1"]
	if !ok {
		t.Fatal("district d1 missing from snapshot")
	}
	if ds.WeeklyEntries != 1 || ds.MonthlyEntries != 1 {
		t.Errorf("district windows = (%d, %d); want (1, 1)", ds.WeeklyEntries, ds.MonthlyEntries)
	}
	if ds.ActiveStudents != 1 {
		t.Errorf("district ActiveStudents = %d; want 1", ds.ActiveStudents)
	}
}

func Test_analyticsApi_views(t *testing.T) {
	app := setup(t)

	student := testutil.CreateStudent(t, usrRepo, "Aline M", "alinem", "aline@test.cd", "", "c1", "sc1", "d1")
	other := testutil.CreateStudent(t, usrRepo, "Beni K", "benik", "beni@test.cd", "", "c2", "sc1", "d1")
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	testutil.CreateEntry(t, entryRepo, student.ID, "day one", "hello brave new world")

	// no snapshot yet: every read is a 404
	notFound := marchallObj(t, httpErr{Error: "not found"})
	for _, path := range []string{"/v1/analytics", "/v1/analytics/districts/d1"} {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s before snapshot: code = %v; want %v", path, rec.Code, http.StatusNotFound)
		}
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/analytics/run", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("run failed! code = %v; want %v", rec.Code, http.StatusCreated)
	}

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})
	tests := []httpTest{
		{name: "district view (teacher)", path: "/v1/analytics/districts/d1", token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "district view (student)", path: "/v1/analytics/districts/d1", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "school view (admin)", path: "/v1/analytics/schools/sc1", token: getToken(t, admin), wantCode: http.StatusOK},
		{name: "class view (teacher)", path: "/v1/analytics/classes/c1", token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "unknown district", path: "/v1/analytics/districts/lol", token: getToken(t, admin), wantCode: http.StatusNotFound, wantData: notFound},
		{name: "student reads own view", path: "/v1/analytics/students/" + student.ID, token: getToken(t, student), wantCode: http.StatusOK},
		{name: "student cannot read another's view", path: "/v1/analytics/students/" + student.ID, token: getToken(t, other), wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "staff reads any student view", path: "/v1/analytics/students/" + student.ID, token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "history (admin)", path: "/v1/analytics/history", token: getToken(t, admin), wantCode: http.StatusOK},
		{name: "history (teacher)", path: "/v1/analytics/history", token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: forbidden},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var body interface{}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// the student view carries the per-student numbers
	req, rec = newAuthRequest(http.MethodGet, "/v1/analytics/students/"+student.ID, getToken(t, student))
	app.ServeHTTP(rec, req)
	var ls analytics.LevelStats
	if err := json.Unmarshal(rec.Body.Bytes(), &ls); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if ls.TotalWords != 4 || ls.TotalEntries != 1 {
		t.Errorf("student stats = (%d, %d); want (4, 1)", ls.TotalWords, ls.TotalEntries)
	}
	if ls.AvgWordsPerEntry != 4 {
		t.Errorf("AvgWordsPerEntry = %d; want 4", ls.AvgWordsPerEntry)
	}
}
