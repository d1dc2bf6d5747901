package enums

import "fmt"

// ProductType distinguishes simple products from ones sold through variants.
type ProductType string

const (
	ProductTypeRegular ProductType = "REGULAR"
	ProductTypeVariant ProductType = "VARIANT"
)

var validProductTypes = []ProductType{
	ProductTypeRegular,
	ProductTypeVariant,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType. Empty input yields REGULAR.
func ParseProductType(value string) (ProductType, error) {
	if value == "" {
		return ProductTypeRegular, nil
	}
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}

// ProductSort selects the list ordering.
type ProductSort string

const (
	ProductSortNewest  ProductSort = ""
	ProductSortHighest ProductSort = "highest"
	ProductSortLowest  ProductSort = "lowest"
)

// ParseProductSort converts raw query input into a ProductSort.
func ParseProductSort(value string) (ProductSort, error) {
	switch ProductSort(value) {
	case ProductSortNewest, ProductSortHighest, ProductSortLowest:
		return ProductSort(value), nil
	}
	return "", fmt.Errorf("invalid sort %q", value)
}
