package model

type ProductAdded struct {
	ProductID int
	Name      string
}

func (e ProductAdded) Type() string { return "ProductAdded" }

type ProductUpdated struct {
	ProductID int
}

func (e ProductUpdated) Type() string { return "ProductUpdated" }

type ProductDeleted struct {
	ProductID int
}

func (e ProductDeleted) Type() string { return "ProductDeleted" }

type OrderPlaced struct {
	OrderID    string
	TotalCents int64
	ItemCount  int
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }

type OrderStatusChanged struct {
	OrderID   string
	OldStatus OrderStatus
	NewStatus OrderStatus
	Forced    bool
}

func (e OrderStatusChanged) Type() string { return "OrderStatusChanged" }

type ConfigUpdated struct {
	StoreName string
}

func (e ConfigUpdated) Type() string { return "ConfigUpdated" }
