// Package numbering genera los consecutivos legibles de ventas y turnos de caja
// (VND000001, CX000001). El valor de la secuencia lo aporta el repositorio
// ("último número + 1" dentro de la transacción); la constraint única sobre la
// columna del número convierte la carrera de inserciones concurrentes en
// ErrNumberConflict, que el caso de uso reintenta.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// width ancho del sufijo numérico con ceros a la izquierda.
const width = 6

// Format construye el número legible: prefijo + secuencial de 6 dígitos.
// Una secuencia mayor a 999999 simplemente ensancha el sufijo.
func Format(prefix string, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}

// Parse extrae el valor secuencial de un número con el prefijo dado.
func Parse(prefix, number string) (int64, error) {
	if !strings.HasPrefix(number, prefix) {
		return 0, fmt.Errorf("número %q sin prefijo %q", number, prefix)
	}
	seq, err := strconv.ParseInt(number[len(prefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("número %q: sufijo no numérico", number)
	}
	return seq, nil
}
