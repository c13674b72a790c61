package author

import "time"

type Author struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null;index" json:"name"`
	Bio       *string   `gorm:"column:bio;size:1000" json:"bio"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}
