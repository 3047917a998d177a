package interfaces

import "io"

// TemplateRenderer renders a named template against the supplied data. When
// writers are provided the rendered output is copied to each of them as well.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
