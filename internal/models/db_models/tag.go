package db_models

type Tag struct {
	BaseModel
	Name string `gorm:"unique"`
	Icon string

	Activities []Activity `gorm:"many2many:activity_tags"`
}
