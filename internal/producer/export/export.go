// Package export renders verified producers as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"sadapurne/internal/certificate"
	"sadapurne/internal/producer/models"
)

const sheet = "Producers"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{
	"Aadhar",
	"Name",
	"Business Name",
	"License Number",
	"Certificate Type",
	"Kind of Business",
	"Annual Income",
	"Issue Date",
	"Expiry Date",
	"Address",
	"Verified At",
}

// Lister is the read side of the producer store.
type Lister interface {
	List(ctx context.Context) ([]*models.Producer, error)
}

type Exporter struct {
	store  Lister
	logger *slog.Logger
}

func New(store Lister, logger *slog.Logger) *Exporter {
	if store == nil {
		panic("export: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: store, logger: logger}
}

// Workbook is one rendered export.
type Workbook struct {
	Data []byte
	Rows int
}

// ExportXLSX writes every stored producer, newest first. Aadhar numbers are masked
// because the file leaves the service.
func (e *Exporter) ExportXLSX(ctx context.Context) (*Workbook, error) {
	start := time.Now()

	producers, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list producers: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range producers {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, p.Aadhar.Masked())
		write(2, p.Name)
		write(3, p.BusinessName)
		write(4, p.LicenseNumber)
		write(5, p.CertificateType.String())
		write(6, p.BusinessType)
		write(7, p.AnnualIncome)
		write(8, p.IssueDate.Format(certificate.DateLayout))
		if p.ExpiryDate != nil {
			write(9, p.ExpiryDate.Format(certificate.DateLayout))
		}
		write(10, p.Address)
		write(11, p.VerifiedAt.UTC().Format(time.RFC3339))
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "C", 28)
	_ = f.SetColWidth(sheet, "D", "F", 20)
	_ = f.SetColWidth(sheet, "G", "I", 14)
	_ = f.SetColWidth(sheet, "J", "J", 48)
	_ = f.SetColWidth(sheet, "K", "K", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	e.logger.InfoContext(ctx, "producers exported",
		"rows", len(producers),
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Workbook{Data: buf.Bytes(), Rows: len(producers)}, nil
}
