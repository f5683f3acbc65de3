package cartclient

type ProductSnapshot struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
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

type AddItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
