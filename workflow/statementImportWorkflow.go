package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/models"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var statementImportColumns = []string{"Date", "Reference", "Amount", "Note"}

// GenerateStatementTemplate builds the upload template workbook.
func GenerateStatementTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, col := range statementImportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return nil, err
	}
	return f, nil
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportStatementLines loads statement lines from an uploaded workbook and
// runs the auto matcher over the statement once the lines are in. Rows
// follow the template: date, reference, amount, optional note. The import is
// all-or-nothing per file and guarded by a distributed lock so two uploads
// against the same statement cannot interleave. Blank rows are skipped; a
// row with a bad date or amount fails the whole import with a row-numbered
// error.
func ImportStatementLines(ctx context.Context, logger *logrus.Logger, statementId int, reader io.Reader) (*ImportResult, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	statement, err := models.GetBankStatement(ctx, statementId)
	if err != nil {
		return nil, errors.New("statement not found")
	}
	if statement.State == models.StatementStatePosted || statement.State == models.StatementStateCancelled {
		return nil, errors.New("cannot import into a posted or cancelled statement")
	}

	lock, err := config.ObtainLock(fmt.Sprintf("statement-import:%d", statementId), 2*time.Minute)
	if err != nil {
		return nil, errors.New("another import is running for this statement")
	}
	if lock != nil {
		defer lock.Release(config.GetRedisContext())
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		config.LogError(logger, "statementImportWorkflow.go", "ImportStatementLines", "OpenReader", statementId, err)
		return nil, errors.New("could not read the uploaded file")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("the file has no data rows")
	}

	result := ImportResult{}
	var lines []models.BankStatementLine
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			result.Skipped++
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected at least date, reference and amount", rowNum)
		}

		date, err := parseImportDate(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", rowNum, err)
		}
		ref := strings.TrimSpace(row[1])
		if ref == "" {
			return nil, fmt.Errorf("row %d: reference is required", rowNum)
		}
		amount, err := utils.ParseDecimal(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", rowNum, row[2])
		}
		note := ""
		if len(row) > 3 {
			note = strings.TrimSpace(row[3])
		}

		lines = append(lines, models.BankStatementLine{
			BusinessId:   businessId,
			StatementId:  statementId,
			Date:         date,
			PaymentRef:   ref,
			Amount:       amount,
			Note:         note,
			MatchStatus:  models.MatchStatusUnmatched,
			IsReconciled: utils.NewFalse(),
		})
	}
	if len(lines) == 0 {
		return nil, errors.New("the file has no data rows")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range lines {
			if err := tx.Create(&lines[i]).Error; err != nil {
				config.LogError(logger, "statementImportWorkflow.go", "ImportStatementLines", "CreateLine", lines[i], err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Imported = len(lines)

	// the lines are committed; matching runs on top of them
	if _, err := AutoMatchStatement(ctx, logger, statementId); err != nil {
		config.LogError(logger, "statementImportWorkflow.go", "ImportStatementLines", "AutoMatchStatement", statementId, err)
		return nil, err
	}
	return &result, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var importDateLayouts = []string{"2006-01-02", "02/01/2006", "01-02-06", "2-Jan-06", "Jan 2, 2006"}

func parseImportDate(v string) (time.Time, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}
