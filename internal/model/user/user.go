package user

import "time"

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts only the known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

func (r Role) String() string {
	return string(r)
}

// User 读者或馆员
type User struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	LibraryID string    `gorm:"column:library_id;size:255;not null;uniqueIndex" json:"library_id"`
	Role      Role      `gorm:"column:role;size:20;not null;index" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
