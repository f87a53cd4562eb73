package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type AddLeadNoteUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewAddLeadNoteUseCase(repo entity.LeadRepositoryInterface) *AddLeadNoteUseCase {
	return &AddLeadNoteUseCase{Repo: repo}
}

func (uc *AddLeadNoteUseCase) Execute(ctx context.Context, input AddNoteInput) (*LeadOutput, error) {
	text := strings.TrimSpace(input.Text)
	switch {
	case text == "":
		return nil, newValidationError([]ValidationError{{"text", "is required"}})
	case utf8.RuneCountInString(text) > maxNoteLength:
		return nil, newValidationError([]ValidationError{{"text", "must not exceed 2000 characters"}})
	}

	note := entity.Note{
		Text:      text,
		CreatedBy: input.Author,
		CreatedAt: time.Now().UTC(),
	}

	updated, err := uc.Repo.AddNote(ctx, input.ID, note)
	if err != nil {
		return nil, mapRepoError(err, "failed to add note")
	}
	return toOutput(updated), nil
}
