package models

// Product represents a product in the store.
type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string  `json:"description" gorm:"type:varchar(200)"`
	Price       float64 `json:"price"`
	Qty         int     `json:"qty"`
}

// TableName pins the table to "product" instead of GORM's pluralized default.
func (Product) TableName() string {
	return "product"
}

// ProductInput is the request body accepted by create and update.
// Pointer fields let validation tell an absent field from a zero value.
type ProductInput struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Qty         *int     `json:"qty" validate:"required"`
}

// ProductView is the public output schema. Name is not part of it.
type ProductView struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Qty         int     `json:"qty"`
}

// ToView projects a product onto the output schema.
func ToView(p Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Description: p.Description,
		Price:       p.Price,
		Qty:         p.Qty,
	}
}

// ToViews projects a list of products. The result is never nil so it
// serializes as [] when empty.
func ToViews(products []Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ToView(p))
	}
	return views
}
