// Package di wires the API's dependencies together.
package di

import (
	"log"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	logsvc "github.com/trezcool/darasa/services/logger"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

type SessionLoggerParam struct {
	dig.In
	Logger core.Logger `name:"sessionLogger"`
}

func newLogger(conf *core.Config, name string) (core.Logger, error) {
	zl, err := logsvc.NewZapLogger(conf.Debug, name)
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)
	return logger, nil
}

func newAPILogger(conf *core.Config) (core.Logger, error) {
	return newLogger(conf, "API")
}

func newSessionLogger(conf *core.Config) (core.Logger, error) {
	return newLogger(conf, "SESSION")
}

func newIDGenerator() core.IDGenerator {
	return core.NewUUIDGenerator()
}

func newSessionService(db *inmemdb.DB, idGen core.IDGenerator) *session.Service {
	return session.NewService(inmemdb.NewSessionRepository(db), session.Deps{IDGen: idGen, Now: time.Now})
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	svc *session.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		SessionSvc: svc,
		Validate:   validate,
		Translator: translator,
	})
}

func openDB() (*inmemdb.DB, error) {
	return inmemdb.Open()
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newAPILogger))
	must(c.Provide(newSessionLogger, dig.Name("sessionLogger")))
	must(c.Provide(openDB))
	must(c.Provide(newIDGenerator))
	must(c.Provide(newSessionService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
