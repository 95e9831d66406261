package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func Users() []models.User {
	return []models.User{
		{ID: "1", Name: "Nick Fury", Email: "nick@shield.com", Role: domain.RoleAdmin, Country: domain.CountryAmerica},
		{ID: "2", Name: "Captain Marvel", Email: "marvel@shield.com", Role: domain.RoleManager, Country: domain.CountryIndia},
		{ID: "3", Name: "Captain America", Email: "america@shield.com", Role: domain.RoleManager, Country: domain.CountryAmerica},
		{ID: "4", Name: "Thanos", Email: "thanos@shield.com", Role: domain.RoleMember, Country: domain.CountryIndia},
		{ID: "5", Name: "Thor", Email: "thor@shield.com", Role: domain.RoleMember, Country: domain.CountryIndia},
		{ID: "6", Name: "Travis", Email: "travis@shield.com", Role: domain.RoleMember, Country: domain.CountryAmerica},
	}
}

func Restaurants() []models.Restaurant {
	return []models.Restaurant{
		{ID: "1", Name: "Taj Mahal Spices", Country: domain.CountryIndia,
			Description: "Authentic North Indian cuisine with rich curries and tandoori specialties.",
			Image:       "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg"},
		{ID: "2", Name: "Delhi Delights", Country: domain.CountryIndia,
			Description: "Street food favorites and classic Punjabi dishes from the heart of Delhi.",
			Image:       "https://images.pexels.com/photos/958545/pexels-photo-958545.jpeg"},
		{ID: "3", Name: "Mumbai Street Food", Country: domain.CountryIndia,
			Description: "Quick bites and chaat straight from the streets of Mumbai.",
			Image:       "https://images.pexels.com/photos/1624487/pexels-photo-1624487.jpeg"},
		{ID: "4", Name: "American Diner", Country: domain.CountryAmerica,
			Description: "Classic diner comfort food served all day.",
			Image:       "https://images.pexels.com/photos/1199957/pexels-photo-1199957.jpeg"},
		{ID: "5", Name: "Burger Joint", Country: domain.CountryAmerica,
			Description: "Juicy handcrafted burgers and crispy fries.",
			Image:       "https://images.pexels.com/photos/1633578/pexels-photo-1633578.jpeg"},
		{ID: "6", Name: "New York Pizza", Country: domain.CountryAmerica,
			Description: "Thin crust pizza baked the New York way.",
			Image:       "https://images.pexels.com/photos/315755/pexels-photo-315755.jpeg"},
	}
}

func MenuItems() []models.MenuItem {
	item := func(id, restaurantID, name, p, description string) models.MenuItem {
		return models.MenuItem{ID: id, RestaurantID: restaurantID, Name: name, Price: price(p), Description: description}
	}
	return []models.MenuItem{
		item("101", "1", "Butter Chicken", "14.99", "Tender chicken in a creamy tomato sauce."),
		item("102", "1", "Paneer Tikka", "12.99", "Grilled cottage cheese with spices."),
		item("103", "1", "Chicken Biryani", "16.99", "Fragrant rice layered with spiced chicken."),
		item("201", "2", "Chole Bhature", "11.99", "Spicy chickpeas with fried bread."),
		item("202", "2", "Dal Makhani", "10.99", "Slow cooked black lentils with butter."),
		item("203", "2", "Tandoori Roti", "2.99", "Whole wheat bread from the tandoor."),
		item("301", "3", "Pav Bhaji", "9.99", "Spiced vegetable mash with buttered buns."),
		item("302", "3", "Vada Pav", "6.99", "Potato fritter in a bun."),
		item("303", "3", "Bhel Puri", "7.99", "Puffed rice with tangy chutneys."),
		item("401", "4", "Classic Breakfast", "12.99", "Eggs, bacon, toast and hash browns."),
		item("402", "4", "Club Sandwich", "10.99", "Triple decker with turkey and bacon."),
		item("403", "4", "Chicken Fried Steak", "15.99", "Breaded steak with country gravy."),
		item("501", "5", "Classic Cheeseburger", "11.99", "Beef patty with cheddar and pickles."),
		item("502", "5", "Bacon Avocado Burger", "14.99", "Loaded with bacon and fresh avocado."),
		item("503", "5", "Truffle Fries", "6.99", "Fries tossed in truffle oil and parmesan."),
		item("601", "6", "Cheese Pizza", "14.99", "Mozzarella and tomato on a thin crust."),
		item("602", "6", "Pepperoni Pizza", "16.99", "Loaded with crispy pepperoni."),
		item("603", "6", "Garlic Knots", "5.99", "Knotted bread with garlic butter."),
	}
}

func Orders() []models.Order {
	line := func(pos int, menuItemID, name, p string, qty int) models.OrderItem {
		return models.OrderItem{Position: pos, MenuItemID: menuItemID, Name: name, Price: price(p), Quantity: qty}
	}
	return []models.Order{
		{ID: "1001", UserID: "1", RestaurantID: "1", RestaurantName: "Taj Mahal Spices", Status: domain.StatusPaid,
			Items: []models.OrderItem{
				line(0, "101", "Butter Chicken", "14.99", 2),
				line(1, "102", "Paneer Tikka", "12.99", 1),
			},
			Total: price("42.97"), CreatedAt: at("2023-05-15T10:30:00Z")},
		{ID: "1002", UserID: "2", RestaurantID: "2", RestaurantName: "Delhi Delights", Status: domain.StatusPending,
			Items: []models.OrderItem{
				line(0, "201", "Chole Bhature", "11.99", 1),
				line(1, "202", "Dal Makhani", "10.99", 1),
			},
			Total: price("22.98"), CreatedAt: at("2023-05-16T12:45:00Z")},
		{ID: "1003", UserID: "3", RestaurantID: "5", RestaurantName: "Burger Joint", Status: domain.StatusPaid,
			Items: []models.OrderItem{
				line(0, "501", "Classic Cheeseburger", "11.99", 2),
				line(1, "503", "Truffle Fries", "6.99", 1),
			},
			Total: price("30.97"), CreatedAt: at("2023-05-17T18:20:00Z")},
		{ID: "1004", UserID: "4", RestaurantID: "3", RestaurantName: "Mumbai Street Food", Status: domain.StatusPending,
			Items: []models.OrderItem{
				line(0, "301", "Pav Bhaji", "9.99", 1),
				line(1, "302", "Vada Pav", "6.99", 2),
			},
			Total: price("23.97"), CreatedAt: at("2023-05-18T14:10:00Z")},
		{ID: "1005", UserID: "6", RestaurantID: "4", RestaurantName: "American Diner", Status: domain.StatusCancelled,
			Items: []models.OrderItem{
				line(0, "401", "Classic Breakfast", "12.99", 1),
			},
			Total: price("12.99"), CreatedAt: at("2023-05-19T09:30:00Z")},
	}
}

func PaymentMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{ID: "2001", UserID: "1", CardLast4: "4242", Provider: "Visa", Expiry: "05/25"},
		{ID: "2002", UserID: "2", CardLast4: "1234", Provider: "Mastercard", Expiry: "08/24"},
		{ID: "2003", UserID: "3", CardLast4: "5678", Provider: "Amex", Expiry: "12/26"},
		{ID: "2004", UserID: "4", CardLast4: "9012", Provider: "Discover", Expiry: "03/25"},
	}
}
