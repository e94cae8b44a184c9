package testmodel

import "errors"

// ErrInvalidModel is wrapped by every validation failure of NewTestModel.
var ErrInvalidModel = errors.New("invalid test model")
