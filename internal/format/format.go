// Package format renders money, dates and times for API responses. Business
// logic works with raw values; formatting happens at the response boundary.
package format

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Money formats an amount as Colombian pesos without decimals, e.g. "$25.000"
func Money(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$" + printer.Sprintf("%d", -rounded)
	}
	return "$" + printer.Sprintf("%d", rounded)
}

// MoneyCOP is Money with the currency suffix, e.g. "$25.000 COP"
func MoneyCOP(amount float64) string {
	return Money(amount) + " COP"
}

// Date formats a date as "Jan 02, 2006"
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02, 2006")
}

// ClockTime turns a 24h "15:04" (or "15:04:05") value into "03:04 PM".
// Unparseable input is returned unchanged.
func ClockTime(value string) string {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("03:04 PM")
		}
	}
	return value
}

var categoryLabels = map[string]string{
	// income
	"sesion-fotografica":      "Sesión fotográfica",
	"pago-sesion-fotografica": "Pago de sesión fotográfica",
	"edicion-retoque":         "Edición y retoque",
	"venta":                   "Venta",
	"servicio-video":          "Servicio de video",
	"alquiler-equipo":         "Alquiler de equipo",
	"licencia-uso":            "Licencia de uso",
	"contenido-digital":       "Contenido digital",
	"curso-taller":            "Curso/Taller",
	"otros":                   "Otros",
	// expenses
	"alquiler-espacio":     "Alquiler de espacio",
	"asistente":            "Asistente",
	"compra":               "Compra",
	"publicidad-marketing": "Publicidad y marketing",
	"reparacion-equipo":    "Reparación de equipo",
	"software":             "Software",
	"transporte":           "Transporte",
	"vestuario":            "Vestuario",
}

// Category maps a financial movement category slug to a readable label.
// Unknown slugs are title-cased word by word.
func Category(slug string) string {
	if label, ok := categoryLabels[slug]; ok {
		return label
	}
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
