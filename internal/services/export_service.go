package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"complaints/server/internal/models"

	"github.com/xuri/excelize/v2"
)

// Колонки выгрузки, порядок фиксирован
var exportColumns = []string{
	"Complaint Number",
	"Customer Name",
	"Customer Email",
	"Customer Phone",
	"Complaint Type",
	"Priority",
	"Status",
	"Description",
	"Created At",
	"Resolution",
	"Branch Name",
	"Branch City",
}

// ExportService превращает набор жалоб в плоскую табличную выгрузку
type ExportService struct{}

// NewExportService создает новый экземпляр ExportService
func NewExportService() *ExportService {
	return &ExportService{}
}

// exportRow собирает строку выгрузки. Description обязателен для выгрузки,
// хотя в модели поле опционально: жалоба без описания дает MissingFieldError
func exportRow(c *models.Complaint) ([]string, error) {
	if c.Description == "" {
		return nil, &MissingFieldError{Field: "description", Key: c.ComplaintNumber}
	}

	branchName := ""
	branchCity := ""
	if c.Branch != nil {
		branchName = c.Branch.Name
		branchCity = c.Branch.City
	}

	return []string{
		c.ComplaintNumber,
		c.CustomerName,
		c.CustomerEmail,
		c.CustomerPhone,
		c.ComplaintType,
		c.Priority,
		c.Status,
		c.Description,
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.Resolution,
		branchName,
		branchCity,
	}, nil
}

// BuildCSV сериализует жалобы в CSV: строка заголовка плюс строка на жалобу,
// каждое поле в кавычках, внутренние кавычки удваиваются
func (es *ExportService) BuildCSV(complaints []models.Complaint) (string, error) {
	var sb strings.Builder
	sb.WriteString(strings.Join(exportColumns, ","))
	sb.WriteString("\n")

	for i := range complaints {
		row, err := exportRow(&complaints[i])
		if err != nil {
			return "", err
		}
		quoted := make([]string, len(row))
		for j, field := range row {
			quoted[j] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		sb.WriteString(strings.Join(quoted, ","))
		if i < len(complaints)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// BuildXLSX сериализует те же строки в книгу Excel (лист Complaints)
func (es *ExportService) BuildXLSX(complaints []models.Complaint) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Complaints"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания листа: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("ошибка записи заголовка: %w", err)
	}

	for i := range complaints {
		row, err := exportRow(&complaints[i])
		if err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(row))
		for j, field := range row {
			cells[j] = field
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("ошибка записи строки %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("ошибка сериализации книги: %w", err)
	}
	return buf.Bytes(), nil
}
