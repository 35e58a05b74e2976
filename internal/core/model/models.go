package model

import "time"

// User 使用者
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Ingredient 食材
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Recipe 食譜，Amounts 的數量以 Portions 份為基準
type Recipe struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	Name         string             `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Instructions string             `gorm:"type:text" json:"instructions"`
	Portions     int                `gorm:"not null;default:1" json:"portions"`
	Amounts      []IngredientAmount `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	CreatedAt    time.Time          `json:"-"`
	UpdatedAt    time.Time          `json:"-"`
}

// IngredientAmount 食譜中單一食材的用量
type IngredientAmount struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredient"`
	Unit         Unit        `gorm:"size:3;not null" json:"unit"`
	Amount       float64     `gorm:"not null" json:"amount"`
}

// Meal 某位使用者某天的一餐
type Meal struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_user_date_meal" json:"-"`
	User      *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date      Date        `gorm:"type:date;not null;index;uniqueIndex:idx_user_date_meal" json:"date"`
	Type      MealType    `gorm:"column:meal;size:3;not null;uniqueIndex:idx_user_date_meal" json:"meal"`
	Dishes    []Dish      `gorm:"constraint:OnDelete:CASCADE" json:"dishes"`
	Extras    []ExtraItem `gorm:"constraint:OnDelete:CASCADE" json:"extras"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// Dish 一餐中以 Portions 份準備的食譜
type Dish struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	MealID   uint    `gorm:"not null;uniqueIndex:idx_meal_recipe" json:"-"`
	RecipeID uint    `gorm:"not null;uniqueIndex:idx_meal_recipe" json:"-"`
	Recipe   *Recipe `gorm:"constraint:OnDelete:CASCADE" json:"recipe"`
	Portions int     `gorm:"not null;default:1" json:"portions"`
}

// ExtraItem 不屬於任何食譜的額外食材
type ExtraItem struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	MealID uint        `gorm:"not null;index" json:"-"`
	ItemID uint        `gorm:"not null" json:"-"`
	Item   *Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"item"`
	Unit   Unit        `gorm:"size:3;not null" json:"unit"`
	Amount float64     `gorm:"not null" json:"amount"`
}

// TableName 對應資料表名稱
func (ExtraItem) TableName() string {
	return "extra_items"
}

// AllModels 需要自動遷移的模型
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Recipe{},
		&IngredientAmount{},
		&Meal{},
		&Dish{},
		&ExtraItem{},
	}
}
