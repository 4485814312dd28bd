package admin

import "time"

type Admin struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Admin) TableName() string {
	return "admins"
}
