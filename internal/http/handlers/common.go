package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondPage(c *gin.Context, data any, p domain.Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

func respondPDF(c *gin.Context, body []byte, filename string) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}

// UseJSONFieldNames makes binding errors name fields the way clients send them.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "Request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, describeFieldError(fe))
			}
			respondError(c, http.StatusBadRequest, "validation_error", details[0], details)
			return false
		}
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request payload", nil)
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return fallback
	}
	return v
}

func pageFromQuery(c *gin.Context, defaultLimit int) domain.Pagination {
	return domain.NewPagination(queryInt(c, "page", 1), queryInt(c, "limit", defaultLimit), defaultLimit)
}

// queryMoney reads a major-unit amount; a blank value yields nil.
func queryMoney(c *gin.Context, key string) (*domain.Money, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return nil, domain.ValidationError{Field: key, Msg: "must be a non-negative number"}
	}
	m := domain.MoneyFromMajor(f)
	return &m, nil
}

func parseDateField(field, raw string) (time.Time, error) {
	t, err := utils.ParseStayDate(raw)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: field, Msg: "must be a date (YYYY-MM-DD) or RFC3339 timestamp", Err: err}
	}
	return t, nil
}
