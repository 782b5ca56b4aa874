package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GroceryCategory is one of the fixed aisles a grocery item can be filed under
type GroceryCategory string

const (
	CategoryFruits     GroceryCategory = "Fruits"
	CategoryVegetables GroceryCategory = "Vegetables"
	CategoryDairy      GroceryCategory = "Dairy"
	CategoryMeat       GroceryCategory = "Meat"
	CategorySeafood    GroceryCategory = "Seafood"
	CategoryBakery     GroceryCategory = "Bakery"
	CategoryBeverages  GroceryCategory = "Beverages"
	CategoryAlcohol    GroceryCategory = "Alcohol"
	CategoryPantry     GroceryCategory = "Pantry"
	CategoryOther      GroceryCategory = "Other"
)

// GroceryCategories lists every category in display order
var GroceryCategories = []GroceryCategory{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategoryMeat,
	CategorySeafood,
	CategoryBakery,
	CategoryBeverages,
	CategoryAlcohol,
	CategoryPantry,
	CategoryOther,
}

// CanonicalCategory maps free text onto the fixed category set. Matching is
// case-insensitive; anything unknown or empty files under Other.
func CanonicalCategory(s string) GroceryCategory {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther
	}
	// Casers are stateful, so each call gets its own
	c := GroceryCategory(cases.Title(language.English).String(strings.ToLower(s)))
	for _, known := range GroceryCategories {
		if c == known {
			return known
		}
	}
	return CategoryOther
}
