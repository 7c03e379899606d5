package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const msgInternal = "Terjadi kesalahan pada server"

var registerTagNames sync.Once

// useJSONFieldNames membuat error binding memakai nama field JSON, bukan nama struct.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// statusFor memetakan Kind error service ke HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusUnprocessableEntity
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindAuthorization:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError menulis error service. Error tak bertipe = 500 tanpa detail.
func respondError(c *gin.Context, err error) {
	appErr, ok := services.AsError(err)
	if !ok {
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		utils.APIResponse(c, http.StatusInternalServerError, false, msgInternal, nil)
		return
	}

	var data interface{}
	if len(appErr.Fields) > 0 {
		data = appErr.Fields
	}
	utils.APIResponse(c, statusFor(appErr.Kind), false, appErr.Message, data)
}

// respondBindError: body JSON rusak atau field wajib kosong -> 422.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = bindMessage(fe)
		}
		utils.APIResponse(c, http.StatusUnprocessableEntity, false, "Input tidak valid", fields)
		return
	}
	utils.APIResponse(c, http.StatusUnprocessableEntity, false, "Format request tidak valid", nil)
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Wajib diisi"
	case "email":
		return "Format email tidak valid"
	}
	return "Tidak valid"
}

// currentSession session dari AuthMiddleware. nil hanya kalau route salah pasang.
func currentSession(c *gin.Context) *services.Session {
	return services.SessionFromContext(c.Request.Context())
}
