package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		AllowOrigins    []string
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
		Seed          bool
	}

	Config struct {
		Debug                     bool
		TestMode                  bool
		AppName                   string
		Build                     string
		Env                       string
		SecretKey                 string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		DefaultFromEmail          mail.Address
		SendgridApiKey            string
		RollbarToken              string
		FrontendBaseURL           string
		Storage                   string // postgres | memory
		DefaultFaculty            string
		ReportsPageSize           int
		ReportsMaxPageSize        int
		NotifyOnReview            bool
		Server                    ServerConfig
		Database                  DatabaseConfig
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

// NewConfig loads the config of the current ENV (DEV by default).
// Values come from the environment (prefixed with ENV) after loading config/.env.<env> when it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "LUCT Reporting")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "f7#k2l!x0q$9vw-luct-reports-dev-secret-m3n8&z")
	v.SetDefault("jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("defaultFromName", "LUCT Reporting")
	v.SetDefault("defaultFromEmail", "noreply@luct.ac.ls")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("storage", "postgres")
	v.SetDefault("defaultFaculty", "Faculty of ICT")
	v.SetDefault("reportsPageSize", 10)
	v.SetDefault("reportsMaxPageSize", 100)
	v.SetDefault("notifyOnReview", false)

	v.SetDefault("serverHost", ":5000")
	v.SetDefault("serverDebugHost", ":5050")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableReqLogs", false)
	v.SetDefault("serverAllowOrigins", []string{"http://localhost:3000"})

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbUser", "luct")
	v.SetDefault("dbPassword", "luct")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbName", "luct_reporting")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("dbSeed", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("storage", "memory")
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if root, err := Getwd(); err == nil {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		AppName:                   v.GetString("appName"),
		Build:                     v.GetString("build"),
		Env:                       env,
		SecretKey:                 v.GetString("secretKey"),
		JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
		JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("defaultFromName"),
			Address: v.GetString("defaultFromEmail"),
		},
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		FrontendBaseURL:    v.GetString("frontendBaseURL"),
		Storage:            strings.ToLower(v.GetString("storage")),
		DefaultFaculty:     v.GetString("defaultFaculty"),
		ReportsPageSize:    v.GetInt("reportsPageSize"),
		ReportsMaxPageSize: v.GetInt("reportsMaxPageSize"),
		NotifyOnReview:     v.GetBool("notifyOnReview"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			DebugHost:       v.GetString("serverDebugHost"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
			AllowOrigins:    v.GetStringSlice("serverAllowOrigins"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Name:          v.GetString("dbName"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
			Seed:          v.GetBool("dbSeed"),
		},
	}
}

// NewTestConfig returns the config used by tests: no DB, no external services.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.SecretKey = "secret"
	conf.Storage = "memory"
	conf.NotifyOnReview = true
	conf.Server.DisableReqLogs = true
	return conf
}
