package echoapi_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/alramz/cxdash/apps/api/echo"
	"github.com/alramz/cxdash/core/user"
	"github.com/alramz/cxdash/services/email"
	"github.com/alramz/cxdash/tests"
)

const testPassword = "Pwd.1234!"

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", testPassword, user.RoleCustomerService, true)
	testutil.CreateUser(t, app.usrRepo, "tech", "tech@test.com", testPassword, user.RoleMaintenance, false)

	body := func(uname, pwd string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pwd})
	}
	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"username":"this field is required","password":"this field is required"}`),
		},
		{name: "unknown user", body: body("ghost", testPassword), wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "wrong password", body: body("agent", "nope"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{
			name: "deactivated", body: body("tech", testPassword), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "by username", body: body("agent", testPassword)},
		{name: "by email, any case", body: body("AGENT@test.com", testPassword)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/users/login"
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusOK {
				var resp LoginResponse
				unmarshal(t, rec, &resp)
				claims := new(Claims)
				_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
					return []byte(app.conf.SecretKey), nil
				})
				require.NoError(t, err)
				assert.Equal(t, agent.ID, claims.Subject)
				assert.Equal(t, user.RoleCustomerService, claims.Role)
				assert.False(t, claims.IsAdmin)

				usr, err := app.usrRepo.GetUser(testCtx, user.GetFilter{ID: agent.ID})
				require.NoError(t, err)
				assert.False(t, usr.LastLogin.IsZero())
			}
		})
	}
}

func Test_userApi_tokenRefresh(t *testing.T) {
	app := setup(t)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", "", user.RoleCustomerService, true)
	tech := testutil.CreateUser(t, app.usrRepo, "tech", "tech@test.com", "", user.RoleMaintenance, true)
	techToken := getToken(t, app, tech)
	tech.SetActive(false)
	_, err := app.usrRepo.UpdateUser(testCtx, tech)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "invalid token", token: "not.a.jwt", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "deactivated since login", token: techToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "refreshed", token: getToken(t, app, agent)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/users/token-refresh"
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusOK {
				var resp LoginResponse
				unmarshal(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	path := func(search, ordering string, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/v1/users?" + v.Encode()
	}

	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@test.com", "", user.RoleAdmin, true)
	manager := testutil.CreateUser(t, app.usrRepo, "manager", "manager@test.com", "", user.RoleManager, true)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", "", user.RoleCustomerService, true)
	tech := testutil.CreateUser(t, app.usrRepo, "tech", "tech@test.com", "", user.RoleMaintenance, false)
	adminToken := getToken(t, app, admin)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, app, manager), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "all, by username", path: "/v1/users", token: adminToken, wantData: marchallList(t, admin, agent, manager, tech)},
		{name: "search (unknown)", path: path("lol", ""), token: adminToken, wantData: marchallList(t)},
		{name: "search=MAN", path: path("MAN", ""), token: adminToken, wantData: marchallList(t, manager)},
		{name: "role=manager", path: path("", "", user.RoleManager), token: adminToken, wantData: marchallList(t, manager)},
		{
			name: "role=admin,maintenance", path: path("", "", user.RoleAdmin, user.RoleMaintenance), token: adminToken,
			wantData: marchallList(t, admin, tech),
		},
		{name: "order by -username", path: path("", "-username"), token: adminToken, wantData: marchallList(t, tech, manager, agent, admin)},
		{name: "order by role", path: path("", "role"), token: adminToken, wantData: marchallList(t, tech, agent, manager, admin)},
		{name: "unknown ordering is ignored", path: path("", "password_hash"), token: adminToken, wantData: marchallList(t, admin, agent, manager, tech)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func Test_userApi_create(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@test.com", "", user.RoleAdmin, true)
	manager := testutil.CreateUser(t, app.usrRepo, "manager", "manager@test.com", "", user.RoleManager, true)

	newUser := func(uname, email, role string) []byte {
		return marchallObj(t, user.NewUser{
			Username:        uname,
			Email:           email,
			Role:            role,
			Password:        "Sup3r.Secret!",
			PasswordConfirm: "Sup3r.Secret!",
		})
	}
	exists := "a user with this username or email already exists"

	tests := []httpTest{
		{name: "admin required", body: newUser("newbie", "", user.RoleMaintenance), token: getToken(t, app, manager), wantCode: http.StatusForbidden},
		{name: "invalid", body: []byte(`{"username":"x"}`), token: getToken(t, app, admin), wantCode: http.StatusBadRequest},
		{
			name: "unknown role", body: newUser("newbie", "", "boss"), token: getToken(t, app, admin), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role":"role must be one of: admin, manager, customer_service, maintenance"}`),
		},
		{
			name: "username taken", body: newUser("MANAGER", "", user.RoleMaintenance), token: getToken(t, app, admin), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": exists, "email": exists}),
		},
		{name: "created", body: newUser("newbie", "newbie@test.com", user.RoleCustomerService), token: getToken(t, app, admin), wantCode: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/users"
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusCreated {
				var usr user.User
				unmarshal(t, rec, &usr)
				assert.NotEmpty(t, usr.ID)
				assert.Equal(t, "newbie", usr.Username)
				assert.Equal(t, user.RoleCustomerService, usr.Role)
				assert.True(t, usr.Active())
			}
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@test.com", "", user.RoleAdmin, true)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", "", user.RoleCustomerService, true)
	tech := testutil.CreateUser(t, app.usrRepo, "tech", "tech@test.com", "", user.RoleMaintenance, true)
	adminToken := getToken(t, app, admin)
	agentToken := getToken(t, app, agent)
	notFound := marchallObj(t, httpErr{Error: "not found"})
	forbidden := marchallObj(t, httpErr{Error: "permission denied"})

	promoted := agent
	promoted.Role = user.RoleManager

	tests := []httpTest{
		{name: "me", path: "/v1/users/me", token: agentToken, wantData: marchallObj(t, agent)},
		{name: "self", path: "/v1/users/" + agent.ID, token: agentToken, wantData: marchallObj(t, agent)},
		{name: "other user hidden", path: "/v1/users/" + admin.ID, token: agentToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "admin sees anyone", path: "/v1/users/" + agent.ID, token: adminToken, wantData: marchallObj(t, agent)},
		{name: "unknown id", path: "/v1/users/lol", token: adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{
			name: "role change needs admin", method: http.MethodPut, path: "/v1/users/" + agent.ID, token: agentToken,
			body: []byte(`{"role":"admin"}`), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "admin promotes", method: http.MethodPut, path: "/v1/users/" + agent.ID, token: adminToken,
			body: []byte(`{"role":"manager"}`), extra: promoted,
		},
		{
			name: "no self-deletion", method: http.MethodDelete, path: "/v1/users/" + admin.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{name: "delete needs admin", method: http.MethodDelete, path: "/v1/users/" + agent.ID, token: agentToken, wantCode: http.StatusForbidden},
		{name: "deleted", method: http.MethodDelete, path: "/v1/users/" + tech.ID, token: adminToken, wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if want, ok := tt.extra.(user.User); ok {
				var got user.User
				unmarshal(t, rec, &got)
				assert.Equal(t, want.ID, got.ID)
				assert.Equal(t, want.Role, got.Role)
				assert.Equal(t, want.Username, got.Username)
			}
		})
	}

	_, err := app.usrRepo.GetUser(testCtx, user.GetFilter{ID: tech.ID})
	assert.Equal(t, user.ErrNotFound, err)
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t)
	agent := testutil.CreateUser(t, app.usrRepo, "agent", "agent@test.com", testPassword, user.RoleCustomerService, true)
	success := SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	}

	tests := []httpTest{
		{
			name: "invalid email", body: []byte(`{"email":"nope"}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"email must be a valid email address"}`),
		},
		{name: "unknown email", body: []byte(`{"email":"ghost@test.com"}`), wantData: marchallObj(t, success), extra: 0},
		{name: "known email", body: []byte(`{"email":"Agent@Test.com"}`), wantData: marchallObj(t, success), extra: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emailsvc.ResetSentMessages()
			tt.method = http.MethodPost
			tt.path = "/v1/users/password-reset"
			checkCodeAndData(t, tt, app.do(tt))

			if want, ok := tt.extra.(int); ok {
				sent := emailsvc.GetSentMessages()
				require.Len(t, sent, want)
				if want > 0 {
					assert.Equal(t, agent.Email, sent[0].To[0].Address)
					assert.Contains(t, sent[0].TextContent, "/password-reset/"+user.EncodeUID(agent)+"/")
				}
			}
		})
	}

	tt := httpTest{
		method: http.MethodPost, path: "/v1/users/password-reset-confirm", wantCode: http.StatusBadRequest,
		body:     []byte(`{"uid":"` + user.EncodeUID(agent) + `","token":"bad-token","password":"N3w.Secret!","password_confirm":"N3w.Secret!"}`),
		wantData: []byte(`{"token":"invalid or expired token"}`),
	}
	t.Run("confirm with bad token", func(t *testing.T) {
		checkCodeAndData(t, tt, app.do(tt))
	})
}
