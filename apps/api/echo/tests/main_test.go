package tests

import (
	"log"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/jarida/core"
	"github.com/trezcool/jarida/core/user"
	logsvc "github.com/trezcool/jarida/services/logger"
)

var testLogger core.Logger

func TestMain(m *testing.M) {
	_ = os.Setenv("ENV", "TEST")
	_ = os.Setenv("TEST_DEBUG", "false")
	conf := core.NewConfig()

	testLogger = logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	testLogger.Enable(false)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(testLogger)
	user.LoadCommonPasswords(testLogger)

	os.Exit(m.Run())
}
