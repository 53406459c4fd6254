// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

import (
	"errors"
	"fmt"

	"blockpress/internal/models"
)

// Registration failures, in the order they are checked.
var (
	ErrNameNotString     = errors.New("block template names must be strings")
	ErrInvalidType       = errors.New("block templates need to be of wp_template or wp_template_part type")
	ErrUppercaseName     = errors.New("block template names must not contain uppercase characters")
	ErrMissingNamespace  = errors.New("block template names must contain a namespace prefix, e.g. my-plugin//my-custom-template")
	ErrAlreadyRegistered = errors.New("block template is already registered")
	ErrTemplateFile      = errors.New("block template file could not be read")
)

// RegistrationError reports why a Register call was rejected. Err is one
// of the sentinel errors above.
type RegistrationError struct {
	Name string
	Type models.TemplateType
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %s %q: %v", e.Type, e.Name, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
