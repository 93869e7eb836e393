package enums

import "fmt"

// ProductCategory is the storefront's browse taxonomy.
type ProductCategory string

const (
	ProductCategoryApparel     ProductCategory = "apparel"
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryFood        ProductCategory = "food"
	ProductCategoryHome        ProductCategory = "home"
	ProductCategoryBeauty      ProductCategory = "beauty"
	ProductCategoryEtc         ProductCategory = "etc"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case ProductCategoryApparel, ProductCategoryElectronics, ProductCategoryFood,
		ProductCategoryHome, ProductCategoryBeauty, ProductCategoryEtc:
		return true
	}
	return false
}

func (c ProductCategory) String() string {
	return string(c)
}

func ParseProductCategory(value string) (ProductCategory, error) {
	category := ProductCategory(value)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid product category %q", value)
	}
	return category, nil
}
