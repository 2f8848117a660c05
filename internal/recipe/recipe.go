package recipe

// Course is the structural role a recipe plays in a day's plan.
type Course string

const (
	CourseAppetizer     Course = "APPETIZER"
	CourseMainCourse    Course = "MAIN_COURSE"
	CourseDessert       Course = "DESSERT"
	CourseAccompaniment Course = "ACCOMPANIMENT"
)

// Complexity is the effort tier of a recipe.
type Complexity string

const (
	ComplexitySimple   Complexity = "SIMPLE"
	ComplexityModerate Complexity = "MODERATE"
	ComplexityComplex  Complexity = "COMPLEX"
)

// CuisineKind names the fixed cuisine vocabulary. CuisineCustom marks a
// free-form cuisine carried in Cuisine.Custom.
type CuisineKind string

const (
	CuisineItalian       CuisineKind = "ITALIAN"
	CuisineMexican       CuisineKind = "MEXICAN"
	CuisineChinese       CuisineKind = "CHINESE"
	CuisineJapanese      CuisineKind = "JAPANESE"
	CuisineIndian        CuisineKind = "INDIAN"
	CuisineThai          CuisineKind = "THAI"
	CuisineFrench        CuisineKind = "FRENCH"
	CuisineMediterranean CuisineKind = "MEDITERRANEAN"
	CuisineAmerican      CuisineKind = "AMERICAN"
	CuisineOther         CuisineKind = "OTHER"
	CuisineCustom        CuisineKind = "CUSTOM"
)

// Cuisine is a fixed cuisine kind or a free-form custom name.
type Cuisine struct {
	Kind   CuisineKind `json:"kind"`
	Custom string      `json:"custom,omitempty"`
}

// NewCuisine returns a fixed-vocabulary cuisine.
func NewCuisine(kind CuisineKind) Cuisine {
	return Cuisine{Kind: kind}
}

// NewCustomCuisine returns a free-form cuisine with the given name.
func NewCustomCuisine(name string) Cuisine {
	return Cuisine{Kind: CuisineCustom, Custom: name}
}

// String returns the display name, also used as the usage-counter key.
func (c Cuisine) String() string {
	if c.Kind == CuisineCustom && c.Custom != "" {
		return c.Custom
	}
	return string(c.Kind)
}

// DietTag is a dietary property a recipe declares about itself.
type DietTag string

const (
	TagVegetarian DietTag = "VEGETARIAN"
	TagVegan      DietTag = "VEGAN"
	TagGlutenFree DietTag = "GLUTEN_FREE"
	TagDairyFree  DietTag = "DAIRY_FREE"
	TagNutFree    DietTag = "NUT_FREE"
	TagLowCarb    DietTag = "LOW_CARB"
)

// AccompanimentCategory classifies side dishes for pairing.
type AccompanimentCategory string

const (
	CategorySalad     AccompanimentCategory = "SALAD"
	CategoryBread     AccompanimentCategory = "BREAD"
	CategoryVegetable AccompanimentCategory = "VEGETABLE"
	CategoryGrain     AccompanimentCategory = "GRAIN"
	CategoryPotato    AccompanimentCategory = "POTATO"
	CategorySauce     AccompanimentCategory = "SAUCE"
)

// Ingredient is a single structured ingredient line.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Recipe is an immutable input record to the planner. The engine never
// mutates a Recipe.
type Recipe struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Course          Course       `json:"course"`
	Complexity      Complexity   `json:"complexity"`
	Cuisine         Cuisine      `json:"cuisine"`
	DietTags        []DietTag    `json:"diet_tags,omitempty"`
	PrepTimeMinutes int          `json:"prep_time_minutes"`
	CookTimeMinutes int          `json:"cook_time_minutes"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    string       `json:"instructions,omitempty"`

	// RequiresAdvancePrep marks recipes needing work the day before
	// (marinating, overnight proofing).
	RequiresAdvancePrep bool `json:"requires_advance_prep,omitempty"`

	// Main courses only.
	AcceptsAccompaniment bool                    `json:"accepts_accompaniment,omitempty"`
	PreferredCategories  []AccompanimentCategory `json:"preferred_categories,omitempty"`

	// Accompaniments only: the single category this side dish belongs to.
	Category AccompanimentCategory `json:"category,omitempty"`

	UpdatedAt string `json:"updated_at,omitempty"`
}

// TotalTimeMinutes is the combined prep and cook duration.
func (r Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// HasTag reports whether the recipe declares the given dietary tag.
func (r Recipe) HasTag(tag DietTag) bool {
	for _, t := range r.DietTags {
		if t == tag {
			return true
		}
	}
	return false
}
