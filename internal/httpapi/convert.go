package httpapi

import (
	"errors"

	"github.com/kristofer/son/pkg/image"
)

var errBadSaveRequest = errors.New("className and selector are required")

func toStoredMethod(req saveMethodRequest) image.StoredMethod {
	return image.StoredMethod{
		ClassName: req.ClassName,
		Selector:  req.Selector,
		ArgNames:  req.Arguments,
		Body:      req.Body,
	}
}
