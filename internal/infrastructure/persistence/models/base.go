package models

// BaseModel provides the surrogate key shared by every table.
// Keys are database-generated (bigserial), never assigned by the application.
type BaseModel struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`
}
