package logsvc

import (
	"log"
	"strconv"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

// RollbarLogger reports to Rollbar and mirrors every entry on std.
// Entries logged with a user.User carry the caller's role and faculty as custom data.
type RollbarLogger struct {
	std       *log.Logger
	component string
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	// "API : " -> "API"
	component := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(std.Prefix()), ":"))
	return &RollbarLogger{std: std, component: component}
}

// Enable turns Rollbar reporting on or off; std output is unaffected.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry splits args into what Rollbar receives and what std prints.
// The first authenticated user.User becomes the Rollbar person; maps are merged into the custom data.
func (l RollbarLogger) entry(msg string, args []interface{}) (rbArgs, printed []interface{}) {
	custom := map[string]interface{}{"app": "luct"}
	if l.component != "" {
		custom["component"] = l.component
	}

	var usr *user.User
	rbArgs = []interface{}{msg}
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if usr == nil && a.ID != 0 {
				u := a
				usr = &u
			}
		case map[string]interface{}:
			for k, v := range a {
				custom[k] = v
			}
			printed = append(printed, a)
		default:
			rbArgs = append(rbArgs, a)
			printed = append(printed, a)
		}
	}

	if usr != nil {
		rollbar.SetPerson(strconv.Itoa(usr.ID), usr.Name, usr.Email)
		custom["user_role"] = usr.Role
		custom["user_faculty"] = usr.Faculty
		printed = append(printed, "user: "+strconv.Itoa(usr.ID)+" ("+usr.Role+")")
	} else {
		rollbar.ClearPerson()
	}
	return append(rbArgs, custom), printed
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rb, printed := l.entry(msg, args)
	rollbar.Debug(rb...)
	l.print(msg, printed)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rb, printed := l.entry(msg, args)
	rollbar.Info(rb...)
	l.print(msg, printed)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rb, printed := l.entry(msg, args)
	rollbar.Warning(rb...)
	l.print(msg, printed)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rb, printed := l.entry(msg, args)
	rollbar.Error(rb...)
	l.print(msg, printed)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rb, printed := l.entry(msg, args)
	rollbar.Critical(rb...)
	l.print(msg, printed)
	l.std.Fatal(msg)
}

// Flush blocks until every queued Rollbar item is sent.
func (l RollbarLogger) Flush() {
	rollbar.Wait()
}
