package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/video-task-dashboard/internal/errors"
)

// respondBindError answers a failed ShouldBindJSON into req. Missing required
// fields are listed by their JSON names.
func respondBindError(c *gin.Context, req any, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, jsonFieldName(req, fe.StructField()))
		}
	}
	if len(missing) == 0 {
		apierrors.BadRequestWithDetails(c, "Invalid request body", verrs.Error())
		return
	}
	apierrors.MissingField(c, missing)
}

func jsonFieldName(req any, structField string) string {
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
	}
	return structField
}
