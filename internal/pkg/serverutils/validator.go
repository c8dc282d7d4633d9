package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest validates a request DTO against its struct tags and
// returns a fiber BadRequest error listing the offending fields.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var invalid []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				invalid = append(invalid, fmt.Sprintf("%s (%s)", ve.Field(), ve.Tag()))
			}
		}
		return fiber.NewError(fiber.StatusBadRequest,
			"Validation failed: "+strings.Join(invalid, ", "))
	}
	return nil
}
