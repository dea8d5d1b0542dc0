package catalog

import "github.com/dukerupert/techstore/internal/domain"

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Name: "MacBook Pro 14 M3", Category: "laptop", Brand: "Apple",
			Description: "14-inch Liquid Retina XDR laptop with the M3 Pro chip.",
			Image:       "/images/products/macbook-pro-14.jpg",
			Price:       45_000_000, OriginalPrice: 49_990_000, Rating: 4.9,
			StockQuantity: 12, InStock: true,
			Colors:  []string{"Space Black", "Silver"},
			Storage: []string{"512GB", "1TB"},
			Memory:  []string{"18GB", "36GB"},
		},
		{
			ID: 2, Name: "iPhone 15 Pro Max", Category: "smartphone", Brand: "Apple",
			Description: "Titanium design, A17 Pro chip and a 5x telephoto camera.",
			Image:       "/images/products/iphone-15-pro-max.jpg",
			Price:       32_990_000, OriginalPrice: 34_990_000, Rating: 4.8,
			StockQuantity: 25, InStock: true,
			Colors:       []string{"Natural Titanium", "Blue Titanium", "Black Titanium"},
			Storage:      []string{"256GB", "512GB", "1TB"},
			Connectivity: []string{"5G"},
		},
		{
			ID: 3, Name: "Samsung Galaxy S24 Ultra", Category: "smartphone", Brand: "Samsung",
			Description: "Galaxy AI phone with built-in S Pen and 200MP camera.",
			Image:       "/images/products/galaxy-s24-ultra.jpg",
			Price:       29_990_000, OriginalPrice: 33_990_000, Rating: 4.7,
			StockQuantity: 18, InStock: true,
			Colors:       []string{"Titanium Gray", "Titanium Violet"},
			Storage:      []string{"256GB", "512GB"},
			Memory:       []string{"12GB"},
			Connectivity: []string{"5G"},
		},
		{
			ID: 4, Name: "Dell XPS 13 Plus", Category: "laptop", Brand: "Dell",
			Description: "Ultra-thin laptop with Intel Core Ultra and OLED touch display.",
			Image:       "/images/products/dell-xps-13.jpg",
			Price:       38_490_000, Rating: 4.5,
			StockQuantity: 7, InStock: true,
			Colors:  []string{"Graphite", "Platinum"},
			Storage: []string{"512GB", "1TB"},
			Memory:  []string{"16GB", "32GB"},
		},
		{
			ID: 5, Name: "iPad Air M2", Category: "tablet", Brand: "Apple",
			Description: "11-inch tablet with the M2 chip and Apple Pencil Pro support.",
			Image:       "/images/products/ipad-air-m2.jpg",
			Price:       16_990_000, OriginalPrice: 17_990_000, Rating: 4.6,
			StockQuantity: 20, InStock: true,
			Colors:       []string{"Space Gray", "Blue", "Purple", "Starlight"},
			Storage:      []string{"128GB", "256GB"},
			Connectivity: []string{"Wi-Fi", "Wi-Fi + Cellular"},
		},
		{
			ID: 6, Name: "Sony WH-1000XM5", Category: "headphone", Brand: "Sony",
			Description: "Wireless noise cancelling headphones with 30 hour battery.",
			Image:       "/images/products/sony-wh1000xm5.jpg",
			Price:       7_490_000, OriginalPrice: 8_990_000, Rating: 4.8,
			StockQuantity: 30, InStock: true,
			Colors:       []string{"Black", "Silver"},
			Connectivity: []string{"Bluetooth 5.2"},
		},
		{
			ID: 7, Name: "AirPods Pro 2", Category: "headphone", Brand: "Apple",
			Description: "Active noise cancellation earbuds with USB-C MagSafe case.",
			Image:       "/images/products/airpods-pro-2.jpg",
			Price:       5_990_000, Rating: 4.7,
			StockQuantity: 40, InStock: true,
		},
		{
			ID: 8, Name: "Apple Watch Series 9", Category: "smartwatch", Brand: "Apple",
			Description: "Smartwatch with double tap gesture and brighter display.",
			Image:       "/images/products/apple-watch-s9.jpg",
			Price:       10_490_000, OriginalPrice: 11_990_000, Rating: 4.6,
			StockQuantity: 15, InStock: true,
			Colors:       []string{"Midnight", "Starlight", "Pink"},
			Storage:      []string{"41mm", "45mm"},
			Connectivity: []string{"GPS", "GPS + Cellular"},
		},
		{
			ID: 9, Name: "Samsung Galaxy Watch6", Category: "smartwatch", Brand: "Samsung",
			Description: "Health tracking smartwatch with sapphire crystal glass.",
			Image:       "/images/products/galaxy-watch6.jpg",
			Price:       6_290_000, Rating: 4.3,
			StockQuantity: 0, InStock: false,
			Colors: []string{"Graphite", "Gold"},
		},
		{
			ID: 10, Name: "Logitech MX Master 3S", Category: "accessory", Brand: "Logitech",
			Description: "Quiet-click wireless mouse with 8K DPI sensor.",
			Image:       "/images/products/mx-master-3s.jpg",
			Price:       2_490_000, Rating: 4.8,
			StockQuantity: 50, InStock: true,
			Colors: []string{"Graphite", "Pale Gray"},
		},
		{
			ID: 11, Name: "Anker 737 Power Bank", Category: "accessory", Brand: "Anker",
			Description: "24,000mAh power bank with 140W USB-C output.",
			Image:       "/images/products/anker-737.jpg",
			Price:       1_990_000, OriginalPrice: 2_390_000, Rating: 4.5,
			StockQuantity: 60, InStock: true,
		},
		{
			ID: 12, Name: "USB-C Cable 2m", Category: "accessory", Brand: "Ugreen",
			Description: "Braided 100W USB-C to USB-C charging cable.",
			Image:       "/images/products/usb-c-cable.jpg",
			Price:       250_000, Rating: 4.4,
			StockQuantity: 200, InStock: true,
			Colors: []string{"Black", "White"},
		},
		{
			ID: 13, Name: "Phone Case Clear", Category: "accessory", Brand: "Spigen",
			Description: "Shock absorbing transparent case.",
			Image:       "/images/products/clear-case.jpg",
			Price:       400_000, Rating: 4.2,
			StockQuantity: 120, InStock: true,
		},
	}
}
