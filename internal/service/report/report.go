// Package report arma el libro de Excel del plan semanal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/stock-ahora/api-mod-semanal/internal/dto"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
)

const (
	SummarySheet      = "Resumen General"
	CopperSheet       = "Cobre (CU)"
	AluminumSheet     = "Aluminio (AL)"
	DistributionSheet = "Distribución Horas"
)

// Render construye el libro con las cuatro hojas del reporte. Si falta el plan
// de un material su columna se llena con ceros.
func Render(data dto.WeeklyPlanFullResponse, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	w := &sheetWriter{f: f}
	w.err = f.SetSheetName("Sheet1", SummarySheet)
	for _, name := range []string{CopperSheet, AluminumSheet, DistributionSheet} {
		if w.err != nil {
			break
		}
		_, w.err = f.NewSheet(name)
	}
	w.styles()

	cu := planOrEmpty(data, models.MaterialCU)
	al := planOrEmpty(data, models.MaterialAL)

	w.summarySheet(data.WeekNumber, cu, al, generatedAt)
	w.materialSheet(CopperSheet, cu, models.MaterialCU, data.WeekNumber)
	w.materialSheet(AluminumSheet, al, models.MaterialAL, data.WeekNumber)
	w.distributionSheet(data.WeekNumber, cu, al)

	if w.err != nil {
		f.Close()
		return nil, errors.Wrap(w.err, "generando reporte")
	}
	f.SetActiveSheet(0)
	return f, nil
}

func planOrEmpty(data dto.WeeklyPlanFullResponse, m models.MaterialType) dto.WeeklyPlanWithDistribution {
	p := data.Plan(m)
	if p == nil {
		return dto.WeeklyPlanWithDistribution{Distribution: &dto.DistributionSummary{}}
	}
	if p.Distribution == nil {
		out := *p
		out.Distribution = &dto.DistributionSummary{}
		return out
	}
	return *p
}

// sheetWriter guarda el primer error y omite el resto de las escrituras.
type sheetWriter struct {
	f   *excelize.File
	err error

	title, subtitle, header, label, number, twoPlaces, total int
}

func (w *sheetWriter) styles() {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	w.title = w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	w.subtitle = w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	w.header = w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D3D3D3"}},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	w.label = w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	w.number = w.style(&excelize.Style{
		Border:       border,
		CustomNumFmt: strPtr("#,##0"),
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	w.twoPlaces = w.style(&excelize.Style{
		Border:       border,
		CustomNumFmt: strPtr("#,##0.00"),
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	w.total = w.style(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       border,
		CustomNumFmt: strPtr("#,##0.00"),
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
}

func (w *sheetWriter) style(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	w.err = err
	return id
}

func (w *sheetWriter) set(sheet, cell string, value interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, value)
}

func (w *sheetWriter) formula(sheet, cell, formula string) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellFormula(sheet, cell, formula)
}

func (w *sheetWriter) styleRange(sheet, from, to string, style int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(sheet, from, to, style)
}

func (w *sheetWriter) merge(sheet, from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(sheet, from, to)
}

func (w *sheetWriter) width(sheet, from, to string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, from, to, width)
}

type summaryRow struct {
	label   string
	cu, al  interface{}
	concept string
	decimal bool
}

func (w *sheetWriter) summarySheet(week int, cu, al dto.WeeklyPlanWithDistribution, generatedAt time.Time) {
	s := SummarySheet
	w.set(s, "A1", "PLAN MOD PARA SEMANA COBRE Y ALUMINIO")
	w.merge(s, "A1", "I1")
	w.styleRange(s, "A1", "A1", w.title)
	w.set(s, "A2", fmt.Sprintf("SEMANA # %d", week))
	w.merge(s, "A2", "I2")
	w.styleRange(s, "A2", "A2", w.subtitle)
	w.set(s, "A3", "Generado: "+generatedAt.Format("02/01/2006 15:04"))
	w.merge(s, "A3", "I3")

	headerRow := 5
	for i, h := range []string{"", "CU", "AL", "CONCEPTO", "TOTAL"} {
		w.set(s, cell(i+1, headerRow), h)
	}
	w.styleRange(s, cell(1, headerRow), cell(5, headerRow), w.header)

	rows := []summaryRow{
		{"Objetivo Productividad Cu y AL.", decimalValue(cu.ProductivityTarget), decimalValue(al.ProductivityTarget), "Kgs/1tr", true},
		{"Volumen a Fabricar/Semana", cu.ProductionVolume, al.ProductionVolume, "Kgs", false},
		{"Horas Necesarias", cu.HoursNeed, al.HoursNeed, "Horas Persona", false},
		{"MOD", cu.Mod, al.Mod, "Personas", false},
		{"Horas Persona Disponible", cu.HoursPersonAvailable, al.HoursPersonAvailable, "Horas Persona", false},
		{"Excedente Horas Persona", cu.ExcessPersonHours, al.ExcessPersonHours, "Horas Totales", false},
		{"Excedente Horas / Persona", decimalValue(cu.ExcessHoursPerPerson), decimalValue(al.ExcessHoursPerPerson), "Horas / Persona", true},
	}

	first := headerRow + 1
	for i, r := range rows {
		row := first + i
		w.set(s, cell(1, row), r.label)
		w.set(s, cell(2, row), r.cu)
		w.set(s, cell(3, row), r.al)
		w.set(s, cell(4, row), r.concept)

		valueStyle := w.number
		if r.decimal {
			valueStyle = w.twoPlaces
		}
		w.styleRange(s, cell(1, row), cell(1, row), w.label)
		w.styleRange(s, cell(2, row), cell(3, row), valueStyle)
		w.styleRange(s, cell(4, row), cell(4, row), w.label)
		w.styleRange(s, cell(5, row), cell(5, row), w.total)

		switch {
		case i == 0:
			// la productividad no se suma
		case i == len(rows)-1:
			// horas por persona = excedente total / MOD total
			w.formula(s, cell(5, row), fmt.Sprintf("IF(E%d=0,0,E%d/E%d)", row-3, row-1, row-3))
		default:
			w.formula(s, cell(5, row), fmt.Sprintf("B%d+C%d", row, row))
		}
	}

	w.width(s, "A", "A", 34)
	w.width(s, "B", "E", 16)
}

func (w *sheetWriter) materialSheet(s string, p dto.WeeklyPlanWithDistribution, m models.MaterialType, week int) {
	w.set(s, "A1", fmt.Sprintf("%s - SEMANA %d", strings.ToUpper(m.DisplayName()), week))
	w.merge(s, "A1", "D1")
	w.styleRange(s, "A1", "A1", w.subtitle)

	rows := []struct {
		label   string
		value   interface{}
		decimal bool
	}{
		{"Meta de Productividad:", decimalValue(p.ProductivityTarget), true},
		{"Volumen de Producción:", p.ProductionVolume, false},
		{"MOD:", p.Mod, false},
		{"Horas Requeridas:", p.HoursNeed, false},
		{"Horas Persona Disponibles:", p.HoursPersonAvailable, false},
		{"Exceso de Horas Persona:", p.ExcessPersonHours, false},
		{"Exceso por Persona:", decimalValue(p.ExcessHoursPerPerson), true},
	}
	for i, r := range rows {
		row := 3 + i
		w.set(s, cell(1, row), r.label)
		w.set(s, cell(2, row), r.value)
		w.styleRange(s, cell(1, row), cell(1, row), w.header)
		if r.decimal {
			w.styleRange(s, cell(2, row), cell(2, row), w.twoPlaces)
		} else {
			w.styleRange(s, cell(2, row), cell(2, row), w.number)
		}
	}
	w.width(s, "A", "A", 30)
	w.width(s, "B", "B", 16)
}

func (w *sheetWriter) distributionSheet(week int, cu, al dto.WeeklyPlanWithDistribution) {
	s := DistributionSheet
	cd, ad := cu.Distribution, al.Distribution

	w.set(s, "A1", "DISTRIBUCIÓN DE EXCEDENTE HORAS/COLABORADOR")
	w.merge(s, "A1", "E1")
	w.styleRange(s, "A1", "A1", w.subtitle)
	w.set(s, "A2", fmt.Sprintf("SEMANA %d", week))
	w.merge(s, "A2", "E2")
	w.styleRange(s, "A2", "A2", w.subtitle)

	headerRow := 4
	for i, h := range []string{"", "CU", "AL", "CONCEPTO", "TOTAL"} {
		w.set(s, cell(i+1, headerRow), h)
	}
	w.styleRange(s, cell(1, headerRow), cell(5, headerRow), w.header)

	type distRow struct {
		label  string
		cu, al int
	}
	rows := []distRow{
		{"Total Excedente Horas", cd.TotalExcessHours, ad.TotalExcessHours},
		{"MOD", cd.Mod, ad.Mod},
		{"-Vacaciones", cd.HoursFor(models.DistributionVacations), ad.HoursFor(models.DistributionVacations)},
		{"-Banco de Horas (6.5Hrs/Persona)", cd.HoursFor(models.DistributionBankHours), ad.HoursFor(models.DistributionBankHours)},
		{"-Capacitación", cd.HoursFor(models.DistributionTraining), ad.HoursFor(models.DistributionTraining)},
		{"-Servicios Generales", cd.HoursFor(models.DistributionGeneralServices), ad.HoursFor(models.DistributionGeneralServices)},
		{"=Total Horas Disponibles", cd.TotalAvailableHours, ad.TotalAvailableHours},
	}

	first := headerRow + 1
	for i, r := range rows {
		row := first + i
		w.set(s, cell(1, row), r.label)
		w.set(s, cell(2, row), r.cu)
		w.set(s, cell(3, row), r.al)
		concept := "Horas"
		if i == 1 {
			concept = "Personas"
		}
		w.set(s, cell(4, row), concept)
		w.formula(s, cell(5, row), fmt.Sprintf("B%d+C%d", row, row))

		w.styleRange(s, cell(1, row), cell(1, row), w.label)
		w.styleRange(s, cell(2, row), cell(3, row), w.number)
		w.styleRange(s, cell(4, row), cell(4, row), w.label)
		w.styleRange(s, cell(5, row), cell(5, row), w.number)
	}

	// totales generales debajo de la tabla
	last := first + len(rows)
	categories := 0
	for _, t := range models.DistributionTypes {
		categories += cd.HoursFor(t) + ad.HoursFor(t)
	}
	totals := []int{
		cd.TotalExcessHours + ad.TotalExcessHours,
		cd.Mod + ad.Mod,
		categories,
		cd.TotalAvailableHours + ad.TotalAvailableHours,
	}
	for i, v := range totals {
		row := last + 1 + i
		w.set(s, cell(2, row), v)
		w.styleRange(s, cell(2, row), cell(2, row), w.number)
	}

	w.width(s, "A", "A", 36)
	w.width(s, "B", "E", 14)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func decimalValue(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func strPtr(s string) *string { return &s }
