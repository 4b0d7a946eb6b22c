// Package pdf genera el comprobante imprimible de un ticket con Maroto v2.
//
// Layout de la página A6:
//
//	┌───────────────────────────────┐
//	│  Sede + fecha de emisión      │
//	│  ───────────────────────────  │
//	│  CÓDIGO (grande)              │
//	│  Servicio / Estado / Puesto   │
//	│  ───────────────────────────  │
//	│  QR de seguimiento + leyenda  │
//	└───────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ queue.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa queue.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// TicketReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) TicketReceipt(_ context.Context, r queue.Receipt) ([]byte, error) {
	if r.View == nil {
		return nil, fmt.Errorf("pdf: comprobante sin ticket")
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A6).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Turno "+r.View.Code, true).
		WithAuthor(nonEmpty(r.BranchName, "turnos-api"), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r.BranchName, r.View.CreatedAt.In(loc)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(codeRow(r.View.Code))
	m.AddRows(detailRows(r.View, loc)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(trackRows(r.TrackURL)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(branch string, issued time.Time) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(nonEmpty(branch, "-"), props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Align: align.Center, Top: 1,
			}),
			text.New("Emitido: "+issued.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Color: colorGray, Align: align.Center, Top: 8,
			}),
		),
	)
}

func codeRow(code string) core.Row {
	return row.New(26).Add(
		col.New(12).Add(
			text.New("SU TURNO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Align: align.Center, Top: 2,
			}),
			text.New(code, props.Text{
				Style: fontstyle.Bold, Size: 28, Align: align.Center, Top: 8,
			}),
		),
	)
}

func detailRows(v *entity.TicketView, loc *time.Location) []core.Row {
	rows := []core.Row{
		labeled("Servicio", v.ServiceName),
		labeled("Estado", v.Status),
		labeled("Puesto", v.DeskName),
	}
	if v.CalledAt != nil {
		rows = append(rows, labeled("Llamado", v.CalledAt.In(loc).Format("15:04")))
	}
	if v.Notes != nil && *v.Notes != "" {
		rows = append(rows, labeled("Notas", *v.Notes))
	}
	return rows
}

func labeled(label, value string) core.Row {
	return row.New(6).Add(
		col.New(4).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
		col.New(8).Add(text.New(nonEmpty(value, "-"), props.Text{Size: 8, Top: 1})),
	)
}

// trackRows: QR con la URL de seguimiento en vivo, o solo la leyenda si no hay URL.
func trackRows(url string) []core.Row {
	legend := "Conserve este comprobante hasta ser llamado."
	if url == "" {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New(legend, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 3}),
		))}
	}
	return []core.Row{
		row.New(40).Add(
			col.New(5).Add(code.NewQr(url, props.Rect{Percent: 95, Center: true})),
			col.New(7).Add(
				text.New("Escanee el código QR para\nseguir su turno en vivo.", props.Text{
					Size: 8, Top: 6, Left: 2, Color: colorGray,
				}),
				text.New(legend, props.Text{Size: 7, Top: 24, Left: 2, Color: colorPrimary}),
			),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
