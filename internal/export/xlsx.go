package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	// MimeType MIME тип для Excel файлов
	MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// Extension расширение файла для Excel
	Extension = "xlsx"
)

// ExcelExporter выгружает записи ленты в книгу Excel
type ExcelExporter struct {
	logger *logrus.Logger
}

// NewExcelExporter создает новый экспортер
func NewExcelExporter(logger *logrus.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Workbook строит книгу с одним листом. Первая строка содержит отсортированные
// ключи всех записей, вложенные значения записываются как JSON.
func (g *ExcelExporter) Workbook(sheet string, records []map[string]any) (*bytes.Buffer, error) {
	logger := g.logger.WithFields(logrus.Fields{
		"sheet":   sheet,
		"records": len(records),
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("ошибка переименования листа: %w", err)
	}

	// Стиль для заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 12,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err != nil {
		logger.WithError(err).Warn("Ошибка создания стиля заголовка")
	}

	headers := columns(records)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("ошибка записи заголовка: %w", err)
		}
		if headerStyle != 0 {
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
	}

	for rowIndex, record := range records {
		for colIndex, key := range headers {
			value, ok := record[key]
			if !ok || value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err := f.SetCellValue(sheet, cell, cellValue(value)); err != nil {
				return nil, fmt.Errorf("ошибка записи ячейки %s: %w", cell, err)
			}
		}
	}

	var buffer bytes.Buffer
	if err := f.Write(&buffer); err != nil {
		logger.WithError(err).Error("Ошибка записи Excel файла")
		return nil, fmt.Errorf("ошибка генерации Excel файла: %w", err)
	}

	logger.Debug("Excel файл сгенерирован")
	return &buffer, nil
}

func columns(records []map[string]any) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, r := range records {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// cellValue скаляры пишутся как есть, массивы и объекты как JSON
func cellValue(v any) any {
	switch v.(type) {
	case []any, map[string]any, []map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return v
	}
}
