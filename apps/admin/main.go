package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
	emailsvc "github.com/trezcool/luct/services/email"
	logsvc "github.com/trezcool/luct/services/logger"
	"github.com/trezcool/luct/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Flush()

	// set up DB; migrations are left to the migrate command
	var store *database.Store
	switch conf.Storage {
	case database.StorageMemory:
		store = database.NewMemoryStore()
	default:
		db, err := database.Open(context.Background(), conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		store = database.NewPostgresStore(db)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	report.InitValidators(validate, translator)
	core.ParseEmailTemplates(logger)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        store.DB,
		repos:     store.Repositories,
		usrSvc:    user.NewService(store.Users, validate, conf),
		reportSvc: report.NewService(store.Reports, store.Catalog, store.Users, emailsvc.NewService(conf, logger), validate, conf),
		out:       os.Stdout,
	}
	err := cli.run(os.Args)
	if cErr := store.Close(); cErr != nil {
		logger.Error("closing database", cErr)
	}
	if err != nil {
		if err != errHelp {
			printError(err, translator)
		}
		os.Exit(1)
	}
}

// printError writes err to stderr, followed by the failing fields of validation errors.
func printError(err error, translator ut.Translator) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "error: %s\n", err)

	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		for fld, msg := range vErr.FieldMessages(translator) {
			red.Fprintf(os.Stderr, "  %s: %s\n", fld, msg)
		}
	}
}
