package transport

import "github.com/Skotchmaster/garden_shop/services/cart/internal/models"

type AddItemRequest struct {
	ProductID uint `json:"productId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity"  validate:"gte=1,lte=999"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1,lte=999"`
}

type ProductSnapshot struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Price int64  `json:"price"`
	Image string `json:"image,omitempty"`
}

type LineItem struct {
	ID        string           `json:"id"`
	ProductID uint             `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *ProductSnapshot `json:"product,omitempty"`
}

type Cart struct {
	ID string `json:"id"`
}

type CartResponse struct {
	Cart  Cart       `json:"cart"`
	Items []LineItem `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ToLineItem(it models.CartItem) LineItem {
	out := LineItem{
		ID:        it.ID.String(),
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
	}
	if it.Product != nil {
		out.Product = &ProductSnapshot{
			ID:    it.Product.ID,
			Name:  it.Product.Name,
			Slug:  it.Product.Slug,
			Price: it.Product.Price,
			Image: it.Product.Image,
		}
	}
	return out
}

func ToCartResponse(cart models.Cart, items []models.CartItem) CartResponse {
	resp := CartResponse{
		Cart:  Cart{ID: cart.ID.String()},
		Items: make([]LineItem, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, ToLineItem(it))
	}
	return resp
}
