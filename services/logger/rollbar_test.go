package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

func TestRollbarLogger_entry(t *testing.T) {
	conf := core.NewTestConfig()
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "API : ", 0), conf)
	err := errors.New("boom")
	reviewer := user.User{ID: 3, Name: "Jane Smith", Email: "principal@luct.ac.ls", Role: user.RolePrincipalLecturer, Faculty: "Faculty of ICT"}

	tests := []struct {
		name        string
		args        []interface{}
		wantRb      []interface{}
		wantPrinted []interface{}
	}{
		{
			name:   "message only",
			wantRb: []interface{}{"msg", map[string]interface{}{"app": "luct", "component": "API"}},
		},
		{
			name: "user context",
			args: []interface{}{err, map[string]interface{}{"path": "/api/reports"}, reviewer},
			wantRb: []interface{}{"msg", err, map[string]interface{}{
				"app":          "luct",
				"component":    "API",
				"path":         "/api/reports",
				"user_role":    user.RolePrincipalLecturer,
				"user_faculty": "Faculty of ICT",
			}},
			wantPrinted: []interface{}{err, map[string]interface{}{"path": "/api/reports"}, "user: 3 (principal_lecturer)"},
		},
		{
			name:        "anonymous user ignored",
			args:        []interface{}{err, user.User{}},
			wantRb:      []interface{}{"msg", err, map[string]interface{}{"app": "luct", "component": "API"}},
			wantPrinted: []interface{}{err},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, printed := logger.entry("msg", tt.args)
			assert.Equal(t, tt.wantRb, rb)
			assert.Equal(t, tt.wantPrinted, printed)
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "ADMIN : ", 0), core.NewTestConfig())

	logger.Info("Sample data created", map[string]interface{}{"users": 4})
	assert.Equal(t, "ADMIN : Sample data created\nADMIN : map[users:4]\n", buf.String())
}
