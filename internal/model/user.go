package model

import "time"

// User 作者/读者
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(254)" json:"-"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `json:"date_joined"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
