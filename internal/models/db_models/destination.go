package db_models

type Destination struct {
	BaseModel
	Name     string `gorm:"uniqueIndex"`
	Region   string
	Timezone string

	Activities []*Activity `gorm:"foreignKey:DestinationID"`
}
