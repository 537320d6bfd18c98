package echoapi_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alramz/cxdash/core/complaint"
	"github.com/alramz/cxdash/core/reservation"
	"github.com/alramz/cxdash/core/user"
	"github.com/alramz/cxdash/tests"
)

func createComplaint(t *testing.T, app *testApp, number, client, project, status string, createdAt time.Time) complaint.Complaint {
	c, err := app.complaints.CreateComplaint(testCtx, complaint.Complaint{
		ComplaintNumber: number,
		ClientName:      client,
		Project:         project,
		Status:          status,
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
	})
	require.NoError(t, err)
	return c
}

func Test_complaintApi_query(t *testing.T) {
	app := setup(t)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", "", user.RoleCustomerService, true)
	token := getToken(t, app, agent)

	now := time.Now()
	c1 := createComplaint(t, app, "C-001", "Sara Ali", "Palm Villas", complaint.StatusResolved, now.Add(-3*time.Hour))
	c2 := createComplaint(t, app, "C-002", "Omar Saleh", "Sea Towers", complaint.StatusInProgress, now.Add(-2*time.Hour))
	c3 := createComplaint(t, app, "C-003", "Huda Nasser", "Palm Villas", complaint.StatusFollowUp, now.Add(-1*time.Hour))

	path := func(search, ordering, project string, statuses ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		if project != "" {
			v.Add("project", project)
		}
		for _, s := range statuses {
			v.Add("status", s)
		}
		return "/v1/complaints?" + v.Encode()
	}

	tests := []httpTest{
		{name: "auth required", path: "/v1/complaints", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "newest first", path: "/v1/complaints", token: token, wantData: marchallList(t, c3, c2, c1)},
		{name: "search (unknown)", path: path("lol", "", ""), token: token, wantData: marchallList(t)},
		{name: "search on client, any case", path: path("omar", "", ""), token: token, wantData: marchallList(t, c2)},
		{name: "search on project", path: path("palm", "", ""), token: token, wantData: marchallList(t, c3, c1)},
		{
			name: "status", path: path("", "", "", complaint.StatusResolved, complaint.StatusFollowUp), token: token,
			wantData: marchallList(t, c3, c1),
		},
		{name: "project", path: path("", "", "Sea Towers"), token: token, wantData: marchallList(t, c2)},
		{name: "order by client_name", path: path("", "client_name", ""), token: token, wantData: marchallList(t, c3, c2, c1)},
		{name: "order by complaint_number", path: path("", "complaint_number", ""), token: token, wantData: marchallList(t, c1, c2, c3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func Test_complaintApi_crud(t *testing.T) {
	app := setup(t)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", "", user.RoleCustomerService, true)
	manager := testutil.CreateUser(t, app.usrRepo, "manager", "manager@test.com", "", user.RoleManager, true)
	token := getToken(t, app, agent)
	notFound := marchallObj(t, httpErr{Error: "not found"})

	var created complaint.Complaint
	t.Run("create", func(t *testing.T) {
		tt := httpTest{method: http.MethodPost, path: "/v1/complaints", token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"complaint_number":"this field is required","client_name":"this field is required","project":"this field is required"}`),
		}
		checkCodeAndData(t, tt, app.do(tt))

		tt = httpTest{
			method: http.MethodPost, path: "/v1/complaints", token: token, wantCode: http.StatusCreated,
			body: []byte(`{"complaint_number":" C-010 ","client_name":"Sara Ali","project":"Palm Villas","source":"call","details":"leak"}`),
		}
		rec := app.do(tt)
		checkCodeAndData(t, tt, rec)
		unmarshal(t, rec, &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "C-010", created.ComplaintNumber)
		assert.Equal(t, complaint.StatusInProgress, created.Status)
		assert.Equal(t, agent.ID, created.CreatedBy)
	})

	tests := []httpTest{
		{name: "unknown", path: "/v1/complaints/lol", token: token, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "retrieve", path: "/v1/complaints/" + created.ID, token: token, extra: complaint.StatusInProgress},
		{
			name: "invalid status", method: http.MethodPut, path: "/v1/complaints/" + created.ID, token: token,
			body: []byte(`{"status":"closed"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "resolved", method: http.MethodPut, path: "/v1/complaints/" + created.ID, token: getToken(t, app, manager),
			body: []byte(`{"status":"resolved","action":"fixed the pipe"}`), extra: complaint.StatusResolved,
		},
		{name: "update unknown", method: http.MethodPut, path: "/v1/complaints/lol", token: token, body: []byte(`{}`), wantCode: http.StatusNotFound},
		{name: "delete", method: http.MethodDelete, path: "/v1/complaints/" + created.ID, token: token, wantCode: http.StatusNoContent},
		{name: "gone", path: "/v1/complaints/" + created.ID, token: token, wantCode: http.StatusNotFound, wantData: notFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if status, ok := tt.extra.(string); ok {
				var got complaint.Complaint
				unmarshal(t, rec, &got)
				assert.Equal(t, status, got.Status)
				assert.Equal(t, "leak", got.Details)
			}
		})
	}

	c, err := app.complaints.QueryComplaints(testCtx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func Test_reservationApi(t *testing.T) {
	app := setup(t)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", "", user.RoleCustomerService, true)
	token := getToken(t, app, agent)

	var created reservation.Reservation
	t.Run("create", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/v1/reservations", token: token, wantCode: http.StatusBadRequest,
			body:     []byte(`{"reservation_number":"R-1","client_name":"Sara","project":"Palm","date":"01/02/2024"}`),
			wantData: []byte(`{"date":"date must be formatted as YYYY-MM-DD"}`),
		}
		checkCodeAndData(t, tt, app.do(tt))

		tt = httpTest{
			method: http.MethodPost, path: "/v1/reservations", token: token, wantCode: http.StatusCreated,
			body: []byte(`{"reservation_number":"R-1","client_name":"Sara","project":"Palm","unit":"A-12",` +
				`"sales_data":{"payment_method":"cash","unit_value":125000.5},"project_data":{"final_delivery_date":"2025-06-30"}}`),
		}
		rec := app.do(tt)
		checkCodeAndData(t, tt, rec)
		unmarshal(t, rec, &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, reservation.StatusNew, created.Status)
		assert.NotEmpty(t, created.Date)
		require.NotNil(t, created.SalesData.UnitValue)
		assert.Equal(t, 125000.5, *created.SalesData.UnitValue)
		assert.Equal(t, "2025-06-30", created.ProjectData.FinalDeliveryDate)
		assert.False(t, created.SatisfactionData.HasBeenRated)
	})

	ratingPath := "/v1/reservations/" + created.ID + "/rating"
	tests := []httpTest{
		{name: "auth required", path: "/v1/reservations", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "rating too high", method: http.MethodPost, path: ratingPath, token: token, body: []byte(`{"rating":6}`), wantCode: http.StatusBadRequest},
		{name: "rating missing", method: http.MethodPost, path: ratingPath, token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest},
		{
			name: "rate unknown", method: http.MethodPost, path: "/v1/reservations/lol/rating", token: token,
			body: []byte(`{"rating":4}`), wantCode: http.StatusNotFound,
		},
		{name: "rated", method: http.MethodPost, path: ratingPath, token: token, body: []byte(`{"rating":4}`), extra: 4},
		{
			name: "update keeps the rating", method: http.MethodPut, path: "/v1/reservations/" + created.ID, token: token,
			body: []byte(`{"status":"delivered","project_data":{"client_delivery_date":"2025-07-01"}}`), extra: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if rating, ok := tt.extra.(int); ok {
				var got reservation.Reservation
				unmarshal(t, rec, &got)
				assert.True(t, got.SatisfactionData.HasBeenRated)
				assert.Equal(t, rating, got.SatisfactionData.Rating)
				assert.Equal(t, "R-1", got.ReservationNumber)
			}
		})
	}

	r, err := app.reservations.GetReservation(testCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", r.Status)
	assert.Equal(t, "2025-07-01", r.ProjectData.ClientDeliveryDate)
	assert.Empty(t, r.ProjectData.FinalDeliveryDate)

	t.Run("delete many", func(t *testing.T) {
		tt := httpTest{method: http.MethodDelete, path: "/v1/reservations?id=" + created.ID, token: token, wantCode: http.StatusNoContent}
		checkCodeAndData(t, tt, app.do(tt))

		_, err := app.reservations.GetReservation(testCtx, created.ID)
		assert.Equal(t, reservation.ErrNotFound, err)
	})
}
