package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ConverToint convierte valores enteros leídos del entorno (puertos, límites).
func ConverToint(str string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, errors.Wrapf(err, "valor entero inválido %q", str)
	}
	return value, nil
}
