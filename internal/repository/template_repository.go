package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"study-planner/internal/model"
	"study-planner/internal/planner"
)

// TemplateRepository handles templates and their items.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create stores the template together with tpl.Items.
func (r *TemplateRepository) Create(ctx context.Context, tpl *model.Template) error {
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return errors.Wrap(err, "create template")
	}
	return nil
}

// List returns templates newest first, without items.
func (r *TemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	var tpls []model.Template
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&tpls).Error; err != nil {
		return nil, errors.Wrap(err, "list templates")
	}
	return tpls, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*model.Template, error) {
	return findTemplate(r.db.WithContext(ctx), id)
}

// Items returns the items of a template by order, ties by insertion.
func (r *TemplateRepository) Items(ctx context.Context, templateID uint) ([]model.TemplateItem, error) {
	db := r.db.WithContext(ctx)
	if _, err := findTemplate(db, templateID); err != nil {
		return nil, err
	}
	return listItems(db, templateID)
}

// AppendItems adds rows after the current last item. A row's order is offset by the current max order.
func (r *TemplateRepository) AppendItems(ctx context.Context, templateID uint, rows []planner.ImportRow) ([]model.TemplateItem, error) {
	var items []model.TemplateItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTemplate(tx, templateID); err != nil {
			return err
		}
		var maxOrder int
		err := tx.Model(&model.TemplateItem{}).
			Where("template_id = ?", templateID).
			Select("COALESCE(MAX(order_no), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return errors.Wrap(err, "max item order")
		}
		items, err = insertItems(tx, templateID, rows, maxOrder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceItems drops every item of the template and stores rows in their place.
func (r *TemplateRepository) ReplaceItems(ctx context.Context, templateID uint, rows []planner.ImportRow) ([]model.TemplateItem, error) {
	var items []model.TemplateItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTemplate(tx, templateID); err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", templateID).Delete(&model.TemplateItem{}).Error; err != nil {
			return errors.Wrap(err, "delete template items")
		}
		var err error
		items, err = insertItems(tx, templateID, rows, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TemplateRepository) DeleteItem(ctx context.Context, templateID, itemID uint) error {
	res := r.db.WithContext(ctx).
		Where("template_id = ? AND id = ?", templateID, itemID).
		Delete(&model.TemplateItem{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete template item")
	}
	if res.RowsAffected == 0 {
		return model.NotFound("template item")
	}
	return nil
}

// Delete removes the template and its items. Plans created from it are not touched.
func (r *TemplateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTemplate(tx, id); err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&model.TemplateItem{}).Error; err != nil {
			return errors.Wrap(err, "delete template items")
		}
		if err := tx.Delete(&model.Template{}, id).Error; err != nil {
			return errors.Wrap(err, "delete template")
		}
		return nil
	})
}

func findTemplate(db *gorm.DB, id uint) (*model.Template, error) {
	var tpl model.Template
	if err := db.First(&tpl, id).Error; err != nil {
		return nil, trapNotFound(err, "template", "find template")
	}
	return &tpl, nil
}

func listItems(db *gorm.DB, templateID uint) ([]model.TemplateItem, error) {
	var items []model.TemplateItem
	if err := db.Where("template_id = ?", templateID).Order("order_no, id").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "list template items")
	}
	return items, nil
}

func insertItems(tx *gorm.DB, templateID uint, rows []planner.ImportRow, offset int) ([]model.TemplateItem, error) {
	items := make([]model.TemplateItem, len(rows))
	if len(rows) == 0 {
		return items, nil
	}
	for i, row := range rows {
		items[i] = model.TemplateItem{
			TemplateID: templateID,
			Order:      offset + row.Order,
			Title:      row.Title,
			LinkURL:    row.LinkURL,
		}
	}
	if err := tx.Create(&items).Error; err != nil {
		return nil, errors.Wrap(err, "create template items")
	}
	return items, nil
}
