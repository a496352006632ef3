package inventory

import "fmt"

// DefaultCodeWidth ancho mínimo del consecutivo en los códigos legibles (RM001).
const DefaultCodeWidth = 3

// FormatCode arma el código legible: prefijo de categoría + consecutivo con ceros a la izquierda.
// Si el consecutivo supera el ancho se escribe completo (RM1000).
func FormatCode(prefix string, seq int64, width int) string {
	if width <= 0 {
		width = DefaultCodeWidth
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}

// SequenceKey clave de la secuencia de un prefijo en sys_sequences.
func SequenceKey(prefix string) string {
	return "code_" + prefix
}
