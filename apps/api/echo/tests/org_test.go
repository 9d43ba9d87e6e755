package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/jarida/core/org"
	"github.com/trezcool/jarida/core/user"
	testutil "github.com/trezcool/jarida/tests"
)

func Test_orgApi_hierarchy(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	adminToken := getToken(t, admin)

	create := func(t *testing.T, path string, body []byte, out interface{}) {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, path, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST %s failed! code = %v; body = %s", path, rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
	}

	var district org.District
	create(t, "/v1/districts", marchallObj(t, org.NewDistrict{Name: "Gombe"}), &district)

	var school org.School
	create(t, "/v1/schools", marchallObj(t, org.NewSchool{Name: "Lycee Uhuru", DistrictID: district.ID}), &school)

	var class org.Class
	create(t, "/v1/classes", marchallObj(t, org.NewClass{Name: "6A", SchoolID: school.ID, GradeName: "6eme", Division: "A"}), &class)

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})
	notFound := marchallObj(t, httpErr{Error: "not found"})
	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/districts", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "writes are admin only", method: http.MethodPost, path: "/v1/districts", token: getToken(t, student),
			body: marchallObj(t, org.NewDistrict{Name: "Limete"}), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "any authed user lists districts", method: http.MethodGet, path: "/v1/districts",
			token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallList(t, district),
		},
		{
			name: "retrieve district", method: http.MethodGet, path: "/v1/districts/" + district.ID,
			token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallObj(t, district),
		},
		{
			name: "unknown district", method: http.MethodGet, path: "/v1/districts/lol",
			token: adminToken, wantCode: http.StatusNotFound, wantData: notFound,
		},
		{
			name: "district schools", method: http.MethodGet, path: "/v1/districts/" + district.ID + "/schools",
			token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallList(t, school),
		},
		{
			name: "school classes", method: http.MethodGet, path: "/v1/schools/" + school.ID + "/classes",
			token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallList(t, class),
		},
		{
			name: "school requires existing district", method: http.MethodPost, path: "/v1/schools", token: adminToken,
			body:     marchallObj(t, org.NewSchool{Name: "Orphan", DistrictID: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"district_id": org.ErrNotFound.Error()}),
		},
		{
			name: "name required", method: http.MethodPost, path: "/v1/districts", token: adminToken,
			body:     marchallObj(t, org.NewDistrict{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// rename then delete the class
	req, rec := newAuthRequest(http.MethodPut, "/v1/classes/"+class.ID, adminToken,
		marchallObj(t, org.NewClass{Name: "6B", SchoolID: school.ID, GradeName: "6eme", Division: "B"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var updated org.Class
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if updated.Name != "6B" {
		t.Errorf("updated Name = %q; want %q", updated.Name, "6B")
	}

	req, rec = newAuthRequest(http.MethodDelete, "/v1/classes/"+class.ID, adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed! code = %v", rec.Code)
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+class.ID, adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted class still readable! code = %v", rec.Code)
	}
}
