package serverutils

import (
	"errors"
	"strings"

	"ai-tutor-be/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and reports the first failing field as a ValidationError.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.NewValidation(fieldPath(fe.Namespace()), "failed on '"+fe.Tag()+"'")
	}
	return apperror.NewValidation("", err.Error())
}

// fieldPath drops the struct name from a namespace like "IngestRequest.Records[0].Text".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
