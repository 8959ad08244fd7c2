package user

import "time"

type User struct {
	ID              int64      `gorm:"primaryKey"`
	Email           string     `gorm:"column:email;uniqueIndex;not null"`
	Name            string     `gorm:"column:name;not null"`
	Surname         string     `gorm:"column:surname;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	Role            string     `gorm:"column:role;not null;default:user"`
	AcceptedPrivacy bool       `gorm:"column:accepted_privacy;default:false"`
	Senior          bool       `gorm:"column:senior;default:false"`
	LastLogin       *time.Time `gorm:"column:last_login"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
