package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindingDetails turns a gin binding error into the structured details
// array validation failures respond with.
func bindingDetails(err error) []gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []gin.H{{"message": err.Error()}}
	}

	details := make([]gin.H, 0, len(verrs))
	for _, ferr := range verrs {
		details = append(details, gin.H{
			"field":   ferr.Field(),
			"message": "failed on the '" + ferr.Tag() + "' rule",
		})
	}
	return details
}
