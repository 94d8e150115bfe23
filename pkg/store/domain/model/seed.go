package model

import (
	"fmt"
	"time"
)

func placeholderImage(id int) string {
	return fmt.Sprintf("https://via.placeholder.com/800x1000/F4F4F4/A3A3A3?text=LS+PRODUCT+%d", id)
}

func SeedConfig() StoreConfig {
	return StoreConfig{
		StoreName:       "Liquor Spot",
		PrimaryColor:    ColorCharcoal,
		Layout:          GridLayout,
		HeroImage:       "https://images.unsplash.com/photo-1514362545857-3bc16c4c7d1b?auto=format&fit=crop&q=80&w=2000",
		HeroHeadline:    "The Fine Art of Selection",
		HeroSubheadline: "Sourced globally. Delivered across Africa within 60 minutes.",
		ContactEmail:    "concierge@liquorspot.com",
		ContactPhone:    "+27 (0) 10 999 8888",
	}
}

func SeedProducts() []Product {
	return []Product{
		{ID: 1, ProductDetails: ProductDetails{
			Name: "Reserve Japanese Malt", Category: Spirits, Subcategory: "Whisky",
			PriceCents: 245000, Stock: 12, SKU: "LS-WHI-01", Image: placeholderImage(1),
			Description: "A masterwork of balance and refinement, featuring subtle peat and floral notes.",
			ABV: 43.0, Volume: "750ml", Featured: true,
		}},
		{ID: 2, ProductDetails: ProductDetails{
			Name: "Vintage Anejo 1942", Category: Spirits, Subcategory: "Tequila",
			PriceCents: 380000, Stock: 8, SKU: "LS-TEQ-02", Image: placeholderImage(2),
			Description: "Slow-aged in small batches for a minimum of two years.",
			ABV: 38, Volume: "750ml", Featured: true,
		}},
		{ID: 3, ProductDetails: ProductDetails{
			Name: "Botanical Dry Gin", Category: Spirits, Subcategory: "Gin",
			PriceCents: 54900, Stock: 24, SKU: "LS-GIN-03", Image: placeholderImage(3),
			Description: "A crisp, complex infusion of 12 hand-picked botanicals.",
			ABV: 43.4, Volume: "750ml", Featured: true,
		}},
		{ID: 4, ProductDetails: ProductDetails{
			Name: "Grand Cuvée Brut", Category: Wine, Subcategory: "Champagne",
			PriceCents: 79900, Stock: 40, SKU: "LS-CHAM-04", Image: placeholderImage(4),
			Description: "The gold standard of celebrations with fine bubbles and brioche notes.",
			ABV: 12.0, Volume: "750ml", Featured: true,
		}},
		{ID: 5, ProductDetails: ProductDetails{
			Name: "Stellenbosch Oak Red", Category: Wine, Subcategory: "Red",
			PriceCents: 32500, Stock: 30, SKU: "LS-RED-05", Image: placeholderImage(5),
			Description: "Full-bodied Cabernet Sauvignon with dark berry intensity.",
			ABV: 14.5, Volume: "750ml", Featured: false,
		}},
	}
}

// SeedOrders returns the demo order history, stamped at now.
func SeedOrders(now time.Time) []Order {
	return []Order{
		{
			ID:              "ORD-8821",
			CustomerName:    "Adebayo Mensah",
			CustomerEmail:   "ade@lagos.com",
			CustomerPhone:   "+234 801 234 5678",
			DeliveryAddress: "Victoria Island, Lagos, NG",
			Date:            now,
			Status:          OutForDelivery,
			TotalCents:      245000,
			Items: []OrderItem{
				{ProductID: 1, Name: "Reserve Japanese Malt", PriceCents: 245000, Quantity: 1, Image: placeholderImage(1)},
			},
		},
	}
}

func SeedCustomers() []Customer {
	return []Customer{
		{ID: "1", Name: "Adebayo Mensah", Email: "ade@lagos.com", Phone: "+234 801 234 5678", Location: "Lagos, Nigeria", TotalSpentCents: 1250000, JoinDate: "2023-01-12"},
		{ID: "2", Name: "Zanele Mbeki", Email: "zanele@jhb.co.za", Phone: "+27 72 123 4567", Location: "Johannesburg, RSA", TotalSpentCents: 840000, JoinDate: "2023-02-15"},
		{ID: "3", Name: "Kofi Annan", Email: "kofi@accra.gh", Phone: "+233 24 123 4567", Location: "Accra, Ghana", TotalSpentCents: 520000, JoinDate: "2023-03-10"},
		{ID: "4", Name: "Amara Diop", Email: "amara@dakar.sn", Phone: "+221 77 123 4567", Location: "Dakar, Senegal", TotalSpentCents: 310000, JoinDate: "2023-04-05"},
		{ID: "5", Name: "Tewodros Kassaye", Email: "ted@addis.et", Phone: "+251 91 123 4567", Location: "Addis Ababa, Ethiopia", TotalSpentCents: 670000, JoinDate: "2023-05-20"},
		{ID: "6", Name: "Fatoumata Traore", Email: "fatou@bamako.ml", Phone: "+223 66 123 4567", Location: "Bamako, Mali", TotalSpentCents: 220000, JoinDate: "2023-06-14"},
		{ID: "7", Name: "Chinua Okeke", Email: "chinua@enugu.ng", Phone: "+234 701 234 5678", Location: "Enugu, Nigeria", TotalSpentCents: 1540000, JoinDate: "2023-07-01"},
		{ID: "8", Name: "Wanjiku Kamau", Email: "wanjiku@nairobi.ke", Phone: "+254 712 345 678", Location: "Nairobi, Kenya", TotalSpentCents: 920000, JoinDate: "2023-08-12"},
		{ID: "9", Name: "Moussa Sarr", Email: "moussa@abidjan.ci", Phone: "+225 05 123 4567", Location: "Abidjan, Ivory Coast", TotalSpentCents: 450000, JoinDate: "2023-09-09"},
		{ID: "10", Name: "Naledi Selebi", Email: "naledi@gabs.bw", Phone: "+267 71 123 4567", Location: "Gaborone, Botswana", TotalSpentCents: 780000, JoinDate: "2023-10-30"},
		{ID: "11", Name: "Omar Mansour", Email: "omar@cairo.eg", Phone: "+20 10 123 4567", Location: "Cairo, Egypt", TotalSpentCents: 1100000, JoinDate: "2023-11-02"},
		{ID: "12", Name: "Belinda Nyoni", Email: "belinda@hrare.zw", Phone: "+263 77 123 4567", Location: "Harare, Zimbabwe", TotalSpentCents: 390000, JoinDate: "2023-12-05"},
	}
}
