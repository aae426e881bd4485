package plan

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stock-ahora/api-mod-semanal/internal/dto"
)

var validate = newValidator()

// límites de la columna productivity_target decimal(10,2)
const productivityTargetPlaces = 2

var maxProductivityTarget = decimal.New(1, 8)

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal se valida como número
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateRequest rechaza la solicitud completa si alguno de los grupos tiene
// valores no positivos; el mensaje indica qué material falló.
func validateRequest(request dto.WeeklyPlanDto) error {
	if request.WeekNumber <= 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "El número de semana debe ser mayor a cero")
	}

	for _, m := range materials {
		data := request.Data(m)
		if err := validate.Struct(data); err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Los valores para %s deben ser mayores a cero", m.DisplayName()))
		}
		if !fitsProductivityColumn(data.ProductivityTarget) {
			return httperror.NewHTTPErrorf(http.StatusBadRequest,
				"La meta de productividad para %s debe tener como máximo %d decimales y ser menor a %s",
				m.DisplayName(), productivityTargetPlaces, maxProductivityTarget.String())
		}
	}
	return nil
}

// fitsProductivityColumn indica si el valor se guarda sin redondeo, de modo que
// los campos derivados se puedan recalcular desde lo persistido.
func fitsProductivityColumn(target decimal.Decimal) bool {
	if !target.Equal(target.Truncate(productivityTargetPlaces)) {
		return false
	}
	return target.LessThan(maxProductivityTarget)
}
