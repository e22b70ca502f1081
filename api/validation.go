package api

import (
	"sync"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidators = sync.OnceFunc(func() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("schedule_status", func(fl validator.FieldLevel) bool {
		return domain.ScheduleStatus(fl.Field().String()).Valid()
	})
})
