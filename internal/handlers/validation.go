package handlers

import (
	"sync"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidationsOnce sync.Once

// registerValidations adds the custom binding tags used by the dto package.
func registerValidations() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("entitykind", func(fl validator.FieldLevel) bool {
			return domain.EntityKind(fl.Field().String()).Valid()
		})
	})
}
