package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/sebassmtz/backend-stockpro/internal/apierror"
	"github.com/sebassmtz/backend-stockpro/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads the :id path parameter. It writes 400 and returns false when
// the value is not a UUID.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to their status code. Anything else is an
// internal fault: it is logged and answered with 500.
func respondError(c *gin.Context, err error) {
	var domainErr *apierror.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Kind), apierror.New(domainErr.Message))
		return
	}

	reqID, _ := c.Get(middleware.RequestIDKey)
	log.Error().
		Err(err).
		Interface("request_id", reqID).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
}

func statusFor(k apierror.Kind) int {
	switch k {
	case apierror.KindNotFound:
		return http.StatusNotFound
	case apierror.KindBadRequest:
		return http.StatusBadRequest
	case apierror.KindConflict:
		return http.StatusConflict
	case apierror.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
