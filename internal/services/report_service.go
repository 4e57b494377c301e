package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
)

// Phase order used by the pipeline report
var pipelinePhases = []string{
	models.ProjectPhaseLead,
	models.ProjectPhaseBudget,
	models.ProjectPhaseContract,
	models.ProjectPhaseProduction,
	models.ProjectPhaseDelivery,
	models.ProjectPhaseClosed,
	models.ProjectPhaseCancelled,
}

// ReportService builds downloadable exports of projects and billing
type ReportService struct {
	projectRepo repository.ProjectRepository
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

func NewReportService(projectRepo repository.ProjectRepository, invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *ReportService {
	return &ReportService{
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// exportQuery returns an unpaginated list query for full exports
func exportQuery() *repository.ListQuery {
	q := repository.NewListQuery()
	q.PerPage = 0
	return q
}

// ProjectsCSV exports the full project list as CSV
func (s *ReportService) ProjectsCSV(ctx context.Context) ([]byte, string, error) {
	projects, _, err := s.projectRepo.List(ctx, exportQuery())
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Código", "Cliente", "Fase", "Vehículo", "Matrícula", "Total", "Creado"})
	for _, p := range projects {
		clientName := ""
		if p.Client.ID != 0 {
			clientName = p.Client.FullName
		}
		total := 0.0
		if primary := p.PrimaryBudget(); primary != nil {
			total = primary.Total
		}
		record := []string{
			p.Code,
			clientName,
			p.Phase,
			fmt.Sprintf("%s %s", p.VehicleBrand, p.VehicleModel),
			p.Plate,
			fmt.Sprintf("%.2f", total),
			p.CreatedAt.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	filename := fmt.Sprintf("proyectos_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// InvoicesCSV exports all invoices of a year as CSV
func (s *ReportService) InvoicesCSV(ctx context.Context, year int) ([]byte, string, error) {
	invoices, _, err := s.invoiceRepo.List(ctx, exportQuery())
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Número", "Proyecto", "Cliente", "Tramo", "Base", "IVA", "Total", "Estado", "Emitida", "Vencimiento"})
	for _, inv := range invoices {
		if inv.IssuedAt.Year() != year {
			continue
		}
		projectCode := ""
		clientName := ""
		if inv.Project.ID != 0 {
			projectCode = inv.Project.Code
			if inv.Project.Client.ID != 0 {
				clientName = inv.Project.Client.FullName
			}
		}
		record := []string{
			inv.Number,
			projectCode,
			clientName,
			inv.Tranche,
			fmt.Sprintf("%.2f", inv.BaseAmount),
			fmt.Sprintf("%.2f", inv.IVAAmount),
			fmt.Sprintf("%.2f", inv.Total),
			inv.Status,
			inv.IssuedAt.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	filename := fmt.Sprintf("facturas_%d.csv", year)
	return buf.Bytes(), filename, nil
}

// PipelineXLSX exports the phase distribution and the project list as a workbook
func (s *ReportService) PipelineXLSX(ctx context.Context) ([]byte, string, error) {
	counts, err := s.projectRepo.CountByPhase(ctx)
	if err != nil {
		return nil, "", err
	}
	projects, _, err := s.projectRepo.List(ctx, exportQuery())
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Pipeline"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Pipeline de Proyectos")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Fase")
	_ = f.SetCellValue(sheet, "B3", "Proyectos")
	row := 4
	for _, phase := range pipelinePhases {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), phase)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), counts[phase])
		row++
	}

	row += 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Código")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Cliente")
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Fase")
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Vehículo")
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), "Total")
	row++
	for _, p := range projects {
		clientName := ""
		if p.Client.ID != 0 {
			clientName = p.Client.FullName
		}
		total := 0.0
		if primary := p.PrimaryBudget(); primary != nil {
			total = primary.Total
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Code)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), clientName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Phase)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%s %s", p.VehicleBrand, p.VehicleModel))
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), total)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("pipeline_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// BillingSummaryPDF exports the yearly billing totals as a one-page PDF
func (s *ReportService) BillingSummaryPDF(ctx context.Context, year int) ([]byte, string, error) {
	stats, err := s.invoiceRepo.Stats(ctx, year)
	if err != nil {
		return nil, "", err
	}
	counts, err := s.projectRepo.CountByPhase(ctx)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Resumen de Facturacion %d", year))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Totales")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Facturado:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f EUR", stats.TotalBilled))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Cobrado:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f EUR", stats.TotalCollected))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Pendiente:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f EUR", stats.TotalPending))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Facturas vencidas:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", stats.OverdueCount))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Proyectos por Fase")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, phase := range pipelinePhases {
		pdf.Cell(60, 10, phase+":")
		pdf.Cell(40, 10, fmt.Sprintf("%d", counts[phase]))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("facturacion_%d.pdf", year)
	return buf.Bytes(), filename, nil
}
