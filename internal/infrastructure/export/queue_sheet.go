// Package export genera la planilla XLSX de la cola de una sede con excelize.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// SheetName nombre de la hoja con los tickets.
const SheetName = "Tickets"

var headers = []string{
	"Código", "Servicio", "Estado", "Puesto", "Notas",
	"Hora creación", "Hora llamado", "Hora cierre", "Espera (min)",
}

var _ queue.QueueExporter = (*SheetExporter)(nil)

// SheetExporter implementa queue.QueueExporter.
type SheetExporter struct{}

// NewSheetExporter construye el exportador.
func NewSheetExporter() *SheetExporter { return &SheetExporter{} }

// QueueSheet escribe una fila por ticket en el orden recibido, con horas en loc.
func (e *SheetExporter) QueueSheet(_ context.Context, branchName string, views []*entity.TicketView, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}

	f.SetCellValue(SheetName, "A1", "Cola de la sede "+branchName)
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(SheetName, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(SheetName, "A3", "I3", headerStyle)
	f.SetColWidth(SheetName, "A", "I", 18)

	for i, v := range views {
		r := i + 4
		notes := ""
		if v.Notes != nil {
			notes = *v.Notes
		}
		values := []any{
			v.Code, v.ServiceName, v.Status, v.DeskName, notes,
			formatTime(&v.CreatedAt, loc), formatTime(v.CalledAt, loc), formatTime(v.ClosedAt, loc),
			waitMinutes(v),
		}
		for c, val := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if err := f.SetCellValue(SheetName, cell, val); err != nil {
				return nil, fmt.Errorf("export: escribir %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir planilla: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

// waitMinutes minutos entre creación y llamado; vacío si aún no se llamó.
func waitMinutes(v *entity.TicketView) any {
	if v.CalledAt == nil {
		return ""
	}
	return int(v.CalledAt.Sub(v.CreatedAt).Minutes())
}
