package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/middleware"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// requireUser returns the caller's id or writes a 401.
func requireUser(ctx *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// badRequest reports a binding failure. Validation errors are listed per field.
func badRequest(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": details})
		return
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + unitSuffix(fe)
	case "max":
		return "must be at most " + fe.Param() + unitSuffix(fe)
	default:
		return "is invalid"
	}
}

func unitSuffix(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return " characters"
	}
	return ""
}

func serviceError(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

// parsePaginationParams extracts and validates pagination parameters.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxLimit = 100
	const DefaultPage = 1
	const DefaultLimit = 10

	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}
