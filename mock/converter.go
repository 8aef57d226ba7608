package mock

import "github.com/fwojciec/distill"

var (
	_ distill.Converter = (*Converter)(nil)
	_ distill.Sanitizer = (*Sanitizer)(nil)
)

// Converter is a mock implementation of distill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Sanitizer is a mock implementation of distill.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) (string, error)
}

func (s *Sanitizer) Sanitize(html string) (string, error) {
	return s.SanitizeFn(html)
}
