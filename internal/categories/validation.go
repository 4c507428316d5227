package categories

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func normalize(c Category) Category {
	c.Name = strings.TrimSpace(c.Name)
	c.Type = Type(strings.ToUpper(strings.TrimSpace(string(c.Type))))
	c.Color = strings.TrimSpace(c.Color)
	if c.Color == "" {
		c.Color = "#000000"
	}
	return c
}

func (s *Service) validate(c Category) error {
	return validate.Struct(c)
}
