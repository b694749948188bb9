package service

import (
	"context"
	"io"
	"strings"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
	"study-planner/internal/validate"
)

type TemplateItemInput struct {
	Order   *int    `json:"order_no" validate:"omitempty,gte=0"`
	Title   string  `json:"title" validate:"notblank,max=200"`
	LinkURL *string `json:"link_url" validate:"omitempty,max=500"`
}

// TemplateInput represents data required to create a template.
type TemplateInput struct {
	Title       string              `json:"title" validate:"notblank,max=100"`
	Subject     string              `json:"subject" validate:"max=50"`
	Description string              `json:"description" validate:"max=500"`
	Items       []TemplateItemInput `json:"items" validate:"dive"`
}

type TemplateItemsInput struct {
	Items []TemplateItemInput `json:"items" validate:"dive"`
}

// ImportInput carries bulk items in one of three shapes: pasted text, rows or a CSV file.
// The first non-empty one is used.
type ImportInput struct {
	PasteText string              `json:"paste_text"`
	Rows      []planner.ImportRow `json:"rows"`
	CSV       io.Reader           `json:"-"`
}

// TemplateService wraps template-related business logic.
type TemplateService struct {
	templateRepo *repository.TemplateRepository
}

func NewTemplateService(templateRepo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo}
}

func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*model.Template, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)
	trimItems(input.Items)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	tpl := model.Template{
		Title:       input.Title,
		Subject:     input.Subject,
		Description: input.Description,
	}
	for _, row := range toRows(input.Items) {
		tpl.Items = append(tpl.Items, model.TemplateItem{Order: row.Order, Title: row.Title, LinkURL: row.LinkURL})
	}
	if err := s.templateRepo.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *TemplateService) List(ctx context.Context) ([]model.Template, error) {
	return s.templateRepo.List(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id uint) (*model.Template, error) {
	return s.templateRepo.FindByID(ctx, id)
}

// Items returns the items of the template by order.
func (s *TemplateService) Items(ctx context.Context, id uint) ([]model.TemplateItem, error) {
	return s.templateRepo.Items(ctx, id)
}

// AddItems appends items after the current last one.
func (s *TemplateService) AddItems(ctx context.Context, id uint, input TemplateItemsInput) ([]model.TemplateItem, error) {
	trimItems(input.Items)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	return s.templateRepo.AppendItems(ctx, id, toRows(input.Items))
}

// ReplaceItems overwrites every item of the template.
func (s *TemplateService) ReplaceItems(ctx context.Context, id uint, input TemplateItemsInput) ([]model.TemplateItem, error) {
	trimItems(input.Items)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	return s.templateRepo.ReplaceItems(ctx, id, toRows(input.Items))
}

func (s *TemplateService) DeleteItem(ctx context.Context, id, itemID uint) error {
	return s.templateRepo.DeleteItem(ctx, id, itemID)
}

// Delete removes the template and its items. Plans created from it keep their tasks.
func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	return s.templateRepo.Delete(ctx, id)
}

// Import parses bulk input and appends the rows to the template. Unreadable input is a
// validation error, as is input without a single titled row.
func (s *TemplateService) Import(ctx context.Context, id uint, input ImportInput) ([]model.TemplateItem, error) {
	var rows []planner.ImportRow
	switch {
	case strings.TrimSpace(input.PasteText) != "":
		rows = planner.ParsePaste(input.PasteText)
	case len(input.Rows) > 0:
		rows = planner.ParseRows(input.Rows)
	case input.CSV != nil:
		rows = planner.ParseCSV(input.CSV)
	default:
		return nil, model.NewValidationError("nothing to import",
			model.FieldError{Field: "paste_text", Error: "one of paste_text, rows or file is required"})
	}
	if len(rows) == 0 {
		return nil, model.NewValidationError("no valid rows",
			model.FieldError{Field: "items", Error: "no row with a title was found"})
	}
	return s.templateRepo.AppendItems(ctx, id, rows)
}

func trimItems(items []TemplateItemInput) {
	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		items[i].LinkURL = trimOptional(items[i].LinkURL)
	}
}

// toRows numbers items without an explicit order by their position.
func toRows(items []TemplateItemInput) []planner.ImportRow {
	rows := make([]planner.ImportRow, len(items))
	for i, it := range items {
		order := i + 1
		if it.Order != nil {
			order = *it.Order
		}
		rows[i] = planner.ImportRow{Order: order, Title: it.Title, LinkURL: it.LinkURL}
	}
	return rows
}
