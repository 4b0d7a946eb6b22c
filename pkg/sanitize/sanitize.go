// Package sanitize limpia texto libre que llega de clientes y se muestra en pantallas de sala.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses acota el decodificado de entidades anidadas (&amp;lt; ...).
const maxPasses = 4

// Text elimina todo marcado HTML y espacios en los extremos.
// Las entidades se decodifican antes de limpiar, así el marcado escrito como
// &lt;script&gt; también se elimina. El resultado es un punto fijo: limpiarlo
// otra vez no cambia nada; si no se alcanza se devuelve la salida escapada.
func Text(s string) string {
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(html.UnescapeString(s)))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

// Optional aplica Text a un puntero; nil o vacío tras limpiar devuelve nil.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Text(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
