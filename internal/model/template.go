package model

import "time"

// Template is a reusable, date independent list of task titles.
type Template struct {
	ID          uint           `gorm:"primaryKey" json:"template_id"`
	Title       string         `gorm:"size:100" json:"title"`
	Subject     string         `gorm:"size:50" json:"subject"`
	Description string         `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []TemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}

type TemplateItem struct {
	ID         uint      `gorm:"primaryKey" json:"item_id"`
	TemplateID uint      `gorm:"index" json:"template_id"`
	Order      int       `gorm:"column:order_no" json:"order_no"`
	Title      string    `gorm:"size:200" json:"title"`
	LinkURL    *string   `gorm:"size:500" json:"link_url"`
	CreatedAt  time.Time `json:"created_at"`
}
