package db_models

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string
	Role         string `gorm:"default:user"`
	Credits      int    `gorm:"default:10"`

	Itineraries []ItineraryRecord `gorm:"foreignKey:AccountID"`
}
