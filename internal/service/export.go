package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kingrain94/tagorder-api/internal/domain"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"

	tagSheetName = "Tags"
)

var tagSheetHeader = []string{"Code", "Status", "Product ID", "Reorder URL"}

// TagSheet is a rendered, printable list of a store's tags.
type TagSheet struct {
	Filename    string
	ContentType string
	Data        []byte
}

func tagSheetRows(tags []domain.Tag, reorderBase string) [][]string {
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		productID := ""
		if tag.ProductID != nil {
			productID = *tag.ProductID
		}
		rows = append(rows, []string{tag.Code, string(tag.Status), productID, reorderBase + "/r/" + tag.Code})
	}
	return rows
}

func renderTagSheet(format, prefix string, tags []domain.Tag, reorderBase string) (*TagSheet, error) {
	rows := tagSheetRows(tags, reorderBase)
	filename := fmt.Sprintf("tags-%s.%s", prefix, format)

	switch format {
	case ExportFormatCSV:
		data, err := renderCSV(rows)
		if err != nil {
			return nil, err
		}
		return &TagSheet{Filename: filename, ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case ExportFormatXLSX:
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &TagSheet{Filename: filename, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidArgument, format)
	}
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tagSheetHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tagSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(tagSheetHeader))
	for i, h := range tagSheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(tagSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(tagSheetName, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(tagSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(tagSheetName, "A", "B", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(tagSheetName, "C", "D", 40); err != nil {
		return nil, err
	}
	if err := f.SetPanes(tagSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
