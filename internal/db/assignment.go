package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Assignment 定义前端组件与照片的关联模型。
// componentName 不做白名单校验：由前端组件自行决定取哪个槽位的照片。
type Assignment struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ComponentName string         `gorm:"size:100;not null;index:idx_component_sort" json:"componentName"`
	PhotoID       uint           `gorm:"not null;index" json:"photoId"`
	SortOrder     int            `gorm:"not null;default:0;index:idx_component_sort" json:"order"`
	Props         datatypes.JSON `json:"props"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Photo Photo `gorm:"->;foreignKey:PhotoID;references:ID" json:"photo,omitempty"`
}

// AssignmentProps holds per-slot display properties. Caption, alt and link
// are first-class; any other string key round-trips through Extra.
type AssignmentProps struct {
	Caption string
	Alt     string
	Link    string
	Extra   map[string]string
}

// MarshalJSON flattens the fixed fields and Extra into one JSON object.
func (p AssignmentProps) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(p.Extra)+3)
	for key, value := range p.Extra {
		flat[key] = value
	}
	if p.Caption != "" {
		flat["caption"] = p.Caption
	}
	if p.Alt != "" {
		flat["alt"] = p.Alt
	}
	if p.Link != "" {
		flat["link"] = p.Link
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits known keys into fixed fields and keeps the rest in Extra.
func (p *AssignmentProps) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	*p = AssignmentProps{}
	for key, value := range flat {
		switch key {
		case "caption":
			p.Caption = value
		case "alt":
			p.Alt = value
		case "link":
			p.Link = value
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[key] = value
		}
	}
	return nil
}

// IsZero reports whether no property is set.
func (p AssignmentProps) IsZero() bool {
	return p.Caption == "" && p.Alt == "" && p.Link == "" && len(p.Extra) == 0
}
