package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/httpapi/apiresp"
	"github.com/pyqhub/mcp-server/internal/questions"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{"question_no", "year", "type", "unit", "chapters", "marks", "total_marks", "band", "question"}

// ExportQuestions streams the filtered questions as a spreadsheet. It takes
// the same filter parameters as ListQuestions.
func (h *Handler) ExportQuestions(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cat := h.current(w, r)
	if cat == nil {
		return
	}

	data, err := exportWorkbook(cat.Filter(state), questions.HeadingFor(state, 0).Title)
	if err != nil {
		h.log.Error("export failed", zap.Error(err))
		apiresp.WriteError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="questions.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// exportWorkbook renders qs as a single-sheet workbook. The title goes into
// the document properties.
func exportWorkbook(qs []questions.Question, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, q := range qs {
		row := i + 2
		unit := ""
		if q.Unit != nil {
			unit = strconv.Itoa(*q.Unit)
		}
		codes := make([]string, 0, len(q.Chapters))
		for _, c := range q.Chapters {
			if c.Valid() {
				codes = append(codes, c.String())
			}
		}

		values := []any{
			q.QuestionNo,
			q.Year,
			q.Type,
			unit,
			strings.Join(codes, ", "),
			q.Marks,
			questions.TotalMarks(q.Marks),
			string(q.Band()),
			q.Text,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 14)
	_ = f.SetColWidth(sheet, "I", "I", 80)
	_ = f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "pyqhub"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
