package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores back-office operators. Password holds the bcrypt hash.
type User struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string     `gorm:"uniqueIndex;not null"`
	Email    string     `gorm:"uniqueIndex;not null"`
	Password string     `gorm:"not null"`
	IsActive bool       `gorm:"column:is_active;not null;default:true"`
	PersonID *uuid.UUID `gorm:"type:uuid;column:id_person"`

	Person    *Person `gorm:"foreignKey:PersonID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// Person holds the identity data attached to a user or client.
// TypeDocument: "CC" | "CE" | "TI" | "NIT" | "PP"
type Person struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDDocument   string    `gorm:"column:id_document;not null"`
	TypeDocument string    `gorm:"type:varchar(5);not null"`
	Name         string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Phone        string
}

func (Person) TableName() string { return "persons" }
