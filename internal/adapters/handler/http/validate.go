package http

import "github.com/go-playground/validator/v10"

// validate is shared by all handlers: the instance caches struct metadata and
// is the single place to register custom validations.
var validate = validator.New()
