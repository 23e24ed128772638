package models

// Unit is the measurement unit an ingredient is counted in.
type Unit struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"uniqueIndex;size:64;not null"`
}

type Ingredient struct {
	ID     uint   `json:"id" gorm:"primarykey"`
	Name   string `json:"name" gorm:"uniqueIndex;size:128;not null"`
	UnitID uint   `json:"-" gorm:"not null"`
	Unit   Unit   `json:"-" gorm:"foreignKey:UnitID"`
}
