package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"zonewarden.io/internal/models"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators installs the custom binding tags on gin's validator engine
func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = RegisterAllValidators(v)
	})
	return registerErr
}

// RegisterAllValidators adds the record_type tag to v
func RegisterAllValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("record_type", validatorRecordType); err != nil {
		return err
	}
	return nil
}

func validatorRecordType(fl validator.FieldLevel) bool {
	rt, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := models.ParseRecordType(rt)
	return err == nil
}
