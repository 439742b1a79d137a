package model

type ProductCategory string

const (
	CategoryAll        ProductCategory = "all" // filter value only, never stored on a product
	CategoryVegetables ProductCategory = "vegetables"
	CategoryFruits     ProductCategory = "fruits"
	CategoryGrains     ProductCategory = "grains"
	CategoryDairy      ProductCategory = "dairy"
)

// Product is immutable once it enters the catalog
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Image    string          `json:"image"`
	Category ProductCategory `json:"category"`
}

// ProductDraft is raw user input for a new product; Price is unparsed text
type ProductDraft struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// CategoryInfo describes one entry of the category filter
type CategoryInfo struct {
	ID    ProductCategory `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
}

var categories = []CategoryInfo{
	{ID: CategoryAll, Name: "All", Image: "assets/vegetables"},
	{ID: CategoryVegetables, Name: "Vegetables", Image: "assets/vegetables"},
	{ID: CategoryFruits, Name: "Fruits", Image: "assets/fruits"},
	{ID: CategoryGrains, Name: "Grains", Image: "assets/grains"},
	{ID: CategoryDairy, Name: "Dairy", Image: "assets/dairy"},
}

// Categories returns the filter list, "all" first
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// IsValid reports whether c can be stored on a product
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryVegetables, CategoryFruits, CategoryGrains, CategoryDairy:
		return true
	}
	return false
}

// DefaultImage is the image reference used when a product has none
func (c ProductCategory) DefaultImage() string {
	for _, info := range categories {
		if info.ID == c && c != CategoryAll {
			return info.Image
		}
	}
	return CategoryVegetables.DefaultImage()
}

// DefaultProducts returns a fresh copy of the seed catalog
func DefaultProducts() []Product {
	veg := CategoryVegetables.DefaultImage()
	fruit := CategoryFruits.DefaultImage()
	grain := CategoryGrains.DefaultImage()
	dairy := CategoryDairy.DefaultImage()

	return []Product{
		{ID: "1", Name: "Tomatoes", Price: 40, Image: veg, Category: CategoryVegetables},
		{ID: "2", Name: "Potatoes", Price: 20, Image: veg, Category: CategoryVegetables},
		{ID: "3", Name: "Carrots", Price: 60, Image: veg, Category: CategoryVegetables},
		{ID: "4", Name: "Apples", Price: 100, Image: fruit, Category: CategoryFruits},
		{ID: "5", Name: "Bananas", Price: 50, Image: fruit, Category: CategoryFruits},
		{ID: "6", Name: "Oranges", Price: 80, Image: fruit, Category: CategoryFruits},
		{ID: "7", Name: "Rice", Price: 70, Image: grain, Category: CategoryGrains},
		{ID: "8", Name: "Wheat", Price: 45, Image: grain, Category: CategoryGrains},
		{ID: "9", Name: "Milk", Price: 55, Image: dairy, Category: CategoryDairy},
		{ID: "10", Name: "Cheese", Price: 120, Image: dairy, Category: CategoryDairy},
	}
}
