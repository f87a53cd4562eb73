package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Leads"

var exportHeader = []interface{}{
	"ID", "Name", "Email", "Phone", "Company", "Status", "Source", "Value",
	"Probability", "Score", "Project Type", "Assigned To", "Tags", "Next Follow-up", "Created At",
}

// ExportLeadsUseCase writes the leads matching a filter to an XLSX workbook.
type ExportLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewExportLeadsUseCase(repo entity.LeadRepositoryInterface) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Repo: repo}
}

func (uc *ExportLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput, w io.Writer) (int, error) {
	if errs := ValidateFilter(input.Filter, input.Options.Sort); len(errs) > 0 {
		return 0, newValidationError(errs)
	}

	sort := input.Options.Sort
	if sort == "" {
		sort = entity.DefaultSort
	}

	leads, err := uc.Repo.FindAll(ctx, input.Filter, sort)
	if err != nil {
		return 0, technical("failed to load leads", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, technical("failed to prepare workbook", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return 0, technical("failed to write header", err)
	}

	for i, l := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, technical("failed to address row", err)
		}
		row := exportRow(l)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return 0, technical("failed to write row", err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, technical("failed to write workbook", err)
	}
	return len(leads), nil
}

func exportRow(l entity.Lead) []interface{} {
	assigned := ""
	if l.AssignedTo != nil {
		assigned = l.AssignedTo.Name
		if assigned == "" {
			assigned = l.AssignedTo.ID
		}
	}
	followUp := ""
	if l.NextFollowUp != nil {
		followUp = l.NextFollowUp.Format("2006-01-02")
	}
	return []interface{}{
		l.ID, l.Name, l.Email, l.Phone, l.Company, string(l.Status), string(l.Source), l.Value,
		l.Probability, entity.Score(l), string(l.ProjectType), assigned, strings.Join(l.Tags, ", "),
		followUp, l.CreatedAt.Format("2006-01-02 15:04"),
	}
}
