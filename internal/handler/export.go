package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
	"github.com/jonesrussell/jobs-dashboard/internal/filter"
	"github.com/jonesrussell/jobs-dashboard/internal/logger"
)

// exportSheet is the worksheet name of the exported workbook.
const exportSheet = "Jobs"

// xlsxContentType is the MIME type for .xlsx workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportColumns is the fixed column order of the exported sheet.
var exportColumns = []string{
	domain.ColFilename,
	domain.ColTitle,
	domain.ColCompany,
	domain.ColSkills,
	domain.ColSeniority,
	domain.ColGerman,
	"status",
	"last_modified",
}

// ExportJobs handles GET /api/jobs/export. It runs the same reconcile-and-filter
// pipeline as ListJobs and streams the result as an .xlsx workbook.
func (h *JobsHandler) ExportJobs(c *gin.Context) {
	force := c.Query("refcache") == trueString

	records, ok := h.loadView(c, force)
	if !ok {
		return
	}

	preds := filter.Parse(c.Request.URL.Query())
	result := filter.Apply(records, preds, h.now())

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	if writeErr := writeExportRows(f, result); writeErr != nil {
		h.logger.Error("Failed to write export rows", logger.Error(writeErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}

	filename := "jobs-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxContentType)

	if _, writeErr := f.WriteTo(c.Writer); writeErr != nil {
		h.logger.Error("Failed to stream export", logger.Error(writeErr))
	}
}

// writeExportRows fills the worksheet: one header row, then one row per record.
func writeExportRows(f *excelize.File, records []domain.JobRecord) error {
	header := make([]any, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i, record := range records {
		flat := record.Flatten()
		row := make([]any, len(exportColumns))
		for j, col := range exportColumns {
			row[j] = flat[col]
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, rowIndex int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}
