package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/luct/apps/api/echo"
	"github.com/trezcool/luct/core/user"
	"github.com/trezcool/luct/tests"
)

func Test_userApi_register(t *testing.T) {
	resetDB()

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest, body: []byte(`{}`),
			wantData: marchallObj(t, Response{
				Message: "All fields are required",
				Errors:  map[string]string{"name": reqMsg, "email": reqMsg, "password": reqMsg, "role": reqMsg},
			}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "John", Email: "lol", Password: "s3cr3t!", Role: user.RoleLecturer}),
			wantData: marchallObj(t, Response{
				Message: "Please provide a valid email address",
				Errors:  map[string]string{"email": "email must be a valid email address"},
			}),
		},
		{
			name: "password too short", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "John", Email: "john@luct.ac.ls", Password: "abc", Role: user.RoleLecturer}),
			wantData: marchallObj(t, Response{
				Message: "Password must be at least 6 characters",
				Errors:  map[string]string{"password": "password must contain at least 6 characters"},
			}),
		},
		{
			name: "invalid role", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "John", Email: "john@luct.ac.ls", Password: "s3cr3t!", Role: "dean"}),
			wantData: marchallObj(t, Response{
				Message: "Invalid role",
				Errors:  map[string]string{"role": "role must be one of student, lecturer, principal_lecturer, program_leader"},
			}),
		},
		{
			name: "password similar to name", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "Johnny", Email: "jd@luct.ac.ls", Password: "johnny1", Role: user.RoleLecturer}),
			wantData: marchallObj(t, Response{
				Message: "Password is too similar to your name or email",
				Errors:  map[string]string{"password": "password cannot be similar to your name or email"},
			}),
		},
		{
			name: "registered", wantCode: http.StatusCreated,
			body: marchallObj(t, user.NewUser{Name: " John Doe ", Email: "John@LUCT.ac.ls", Password: "s3cr3t!", Role: user.RoleLecturer}),
			wantData: success(t, "Registration successful! You can now login.", map[string]interface{}{
				"user": user.Profile{ID: 1, Name: "John Doe", Email: "john@luct.ac.ls", Role: user.RoleLecturer, Faculty: conf.DefaultFaculty},
			}),
		},
		{
			name: "email taken", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "Other John", Email: "john@luct.ac.ls", Password: "an0ther!", Role: user.RoleStudent}),
			wantData: marchallObj(t, Response{
				Message: "User already exists with this email",
				Errors:  map[string]string{"email": "User already exists with this email"},
			}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/auth/register"
	}
	runHTTPTests(t, tests)
}

func Test_userApi_login(t *testing.T) {
	resetDB()

	lecturer := testutil.CreateUser(t, repos.Users, "John Doe", "lecturer@luct.ac.ls", "password123", user.RoleLecturer)
	badCreds := marchallObj(t, Response{Message: "Invalid email or password. Please check your credentials."})

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest, body: []byte(`{}`),
			wantData: marchallObj(t, Response{
				Message: "Please provide email and password",
				Errors:  map[string]string{"email": "this field is required", "password": "this field is required"},
			}),
		},
		{
			name: "unknown email", wantCode: http.StatusBadRequest, wantData: badCreds,
			body: marchallObj(t, user.Credentials{Email: "lol@luct.ac.ls", Password: "password123"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest, wantData: badCreds,
			body: marchallObj(t, user.Credentials{Email: lecturer.Email, Password: "password321"}),
		},
		{
			name: "logged in", wantCode: http.StatusOK,
			body: marchallObj(t, user.Credentials{Email: lecturer.Email, Password: "password123"}),
		},
		{
			name: "logged in (email case)", wantCode: http.StatusOK,
			body: marchallObj(t, user.Credentials{Email: " LECTURER@luct.ac.ls", Password: "password123"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the token.. check the claims instead
			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

				var resp struct {
					Success bool          `json:"success"`
					Message string        `json:"message"`
					Data    LoginResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, "Login successful!", resp.Message)
				assert.Equal(t, lecturer.Profile(), resp.Data.User)

				claims := new(Claims)
				_, err := jwt.ParseWithClaims(resp.Data.Token, claims, func(*jwt.Token) (interface{}, error) {
					return []byte(conf.SecretKey), nil
				})
				require.NoError(t, err)
				id, err := claims.UserID()
				require.NoError(t, err)
				assert.Equal(t, lecturer.ID, id)
				assert.Equal(t, user.RoleLecturer, claims.Role)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_me(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, repos.Users, "Student One", "student@luct.ac.ls", "", user.RoleStudent)
	ghost := user.User{ID: 999, Name: "Ghost", Email: "ghost@luct.ac.ls", Role: user.RoleStudent}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "invalid token", token: "lol", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, Response{Message: "invalid or expired jwt"}),
		},
		{
			name: "unknown user", token: getToken(t, ghost), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, Response{Message: "user not authenticated"}),
		},
		{
			name: "profile", token: getToken(t, student), wantCode: http.StatusOK,
			wantData: success(t, "", map[string]interface{}{"user": student.Profile()}),
		},
	}
	for i := range tests {
		tests[i].path = "/api/auth/me"
	}
	runHTTPTests(t, tests)
}

func Test_userApi_refreshToken(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, repos.Users, "Student One", "student@luct.ac.ls", "", user.RoleStudent)

	// issued long enough ago to be past the refresh period
	claims := GetUserClaims(conf, student, time.Now().Add(-2*conf.JWTRefreshExpirationDelta).Unix())
	unrefreshableToken, err := GenerateToken(conf, claims)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, Response{Message: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code)
				var resp struct {
					Data struct {
						Token string `json:"token"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Data.Token)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	resetDB()

	now := time.Now()
	lecturer := testutil.CreateUser(t, repos.Users, "John Doe", "lecturer@luct.ac.ls", "", user.RoleLecturer, now.Add(3*time.Hour))
	principal := testutil.CreateUser(t, repos.Users, "Jane Smith", "principal@luct.ac.ls", "", user.RolePrincipalLecturer, now.Add(1*time.Hour))
	leader := testutil.CreateUser(t, repos.Users, "Mike Johnson", "programleader@luct.ac.ls", "", user.RoleProgramLeader, now.Add(2*time.Hour))
	student := testutil.CreateUser(t, repos.Users, "Student One", "student@luct.ac.ls", "", user.RoleStudent, now)

	list := func(users ...user.User) []byte {
		items := make([]UserListItem, 0, len(users))
		for _, u := range users {
			items = append(items, NewUserListItem(u))
		}
		return success(t, "", map[string]interface{}{"users": items})
	}
	leaderToken := getToken(t, leader)

	tests := []httpTest{
		{name: "Auth required", path: "/api/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "lecturer forbidden", path: "/api/users", token: getToken(t, lecturer), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "principal forbidden", path: "/api/users", token: getToken(t, principal), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "student forbidden", path: "/api/users", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{
			name: "by name", path: "/api/users", token: leaderToken, wantCode: http.StatusOK,
			wantData: list(principal, lecturer, leader, student),
		},
		{
			name: "by -created_at", path: "/api/users?ordering=-created_at", token: leaderToken, wantCode: http.StatusOK,
			wantData: list(lecturer, leader, principal, student),
		},
		{
			name: "by role,name", path: "/api/users?ordering=role,name", token: leaderToken, wantCode: http.StatusOK,
			wantData: list(lecturer, principal, leader, student),
		},
	}
	runHTTPTests(t, tests)
}
