package models

// Item - объявление на P2P-барахолке. Чаты привязываются к объявлению.
type Item struct {
	BaseModel
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Location    string  `gorm:"not null" json:"location"`
	Price       float64 `gorm:"not null" json:"price"`
	Phone       string  `gorm:"not null" json:"phone"`
	Image       string  `gorm:"not null" json:"image"`
	Video       string  `json:"video,omitempty"`
	SellerID    string  `gorm:"index;not null" json:"seller_id"`
}
