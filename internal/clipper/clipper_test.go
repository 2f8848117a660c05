package clipper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"meal-rotation-planner/internal/recipe"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse fixture HTML: %v", err)
	}
	return doc
}

func TestExtractFromDocumentJSONLD(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Recipe",
		"name": "Chicken Tikka Masala",
		"recipeCuisine": "Indian",
		"recipeCategory": "Dinner",
		"prepTime": "PT20M",
		"cookTime": "PT40M",
		"suitableForDiet": "https://schema.org/GlutenFreeDiet",
		"recipeIngredient": ["2 lbs chicken thighs", "1 cup heavy cream", "3 cloves garlic"],
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Marinate the chicken."},
			{"@type": "HowToStep", "text": "Simmer in the sauce."}
		]
	}
	</script>
	</head><body></body></html>`

	rec, err := ExtractFromDocument(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Title != "Chicken Tikka Masala" {
		t.Errorf("Expected title 'Chicken Tikka Masala', got %q", rec.Title)
	}
	if rec.Course != recipe.CourseMainCourse {
		t.Errorf("Expected MAIN_COURSE for a dinner category, got %s", rec.Course)
	}
	if rec.Cuisine.Kind != recipe.CuisineIndian {
		t.Errorf("Expected Indian cuisine, got %s", rec.Cuisine.String())
	}
	if rec.PrepTimeMinutes != 20 || rec.CookTimeMinutes != 40 {
		t.Errorf("Expected 20/40 minutes, got %d/%d", rec.PrepTimeMinutes, rec.CookTimeMinutes)
	}
	// 60 total minutes sits at the top of the moderate tier.
	if rec.Complexity != recipe.ComplexityModerate {
		t.Errorf("Expected MODERATE complexity, got %s", rec.Complexity)
	}
	if len(rec.Ingredients) != 3 {
		t.Fatalf("Expected 3 ingredients, got %d", len(rec.Ingredients))
	}
	if rec.Ingredients[0].Quantity != 2 || rec.Ingredients[0].Unit != "lbs" {
		t.Errorf("Unexpected first ingredient: %+v", rec.Ingredients[0])
	}
	if !rec.HasTag(recipe.TagGlutenFree) {
		t.Error("Expected the gluten-free diet tag")
	}
	if rec.Instructions != "Marinate the chicken.\nSimmer in the sauce." {
		t.Errorf("Expected HowToStep texts joined, got %q", rec.Instructions)
	}
	if !rec.AcceptsAccompaniment {
		t.Error("Expected imported mains to accept accompaniments by default")
	}
	if rec.ID == "" {
		t.Error("Expected a generated recipe ID")
	}
}

func TestExtractFromDocumentGraph(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebPage", "name": "Some page"},
			{"@type": "Recipe", "name": "Tiramisu", "recipeCategory": "Dessert",
			 "recipeIngredient": ["500 g mascarpone"], "totalTime": "PT4H"}
		]
	}
	</script>
	</head><body></body></html>`

	rec, err := ExtractFromDocument(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Title != "Tiramisu" {
		t.Errorf("Expected the recipe inside @graph, got %q", rec.Title)
	}
	if rec.Course != recipe.CourseDessert {
		t.Errorf("Expected DESSERT, got %s", rec.Course)
	}
	if rec.CookTimeMinutes != 240 {
		t.Errorf("Expected the totalTime fallback of 240 minutes, got %d", rec.CookTimeMinutes)
	}
	if rec.Complexity != recipe.ComplexityComplex {
		t.Errorf("Expected COMPLEX for 4 hours, got %s", rec.Complexity)
	}
}

func TestExtractFromDocumentMicrodataFallback(t *testing.T) {
	html := `<html><body>
	<div itemscope itemtype="https://schema.org/Recipe">
		<h1 itemprop="name">Garlic Bread</h1>
		<span itemprop="recipeCategory">Side dish</span>
		<ul>
			<li itemprop="recipeIngredient">1 baguette</li>
			<li itemprop="recipeIngredient">4 cloves garlic</li>
		</ul>
		<meta itemprop="prepTime" content="PT10M">
		<meta itemprop="cookTime" content="PT15M">
	</div>
	</body></html>`

	rec, err := ExtractFromDocument(docFromHTML(t, html))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Title != "Garlic Bread" {
		t.Errorf("Expected 'Garlic Bread', got %q", rec.Title)
	}
	if rec.Course != recipe.CourseAccompaniment {
		t.Errorf("Expected ACCOMPANIMENT for a side dish, got %s", rec.Course)
	}
	if rec.Category != recipe.CategoryBread {
		t.Errorf("Expected the BREAD category, got %s", rec.Category)
	}
	if len(rec.Ingredients) != 2 {
		t.Errorf("Expected 2 ingredients, got %d", len(rec.Ingredients))
	}
}

func TestExtractFromDocumentNoStructuredData(t *testing.T) {
	if _, err := ExtractFromDocument(docFromHTML(t, `<html><body><p>Just a blog.</p></body></html>`)); err == nil {
		t.Fatal("Expected an error for a page without structured data")
	}
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		want recipe.Ingredient
	}{
		{"2 cups flour", recipe.Ingredient{Quantity: 2, Unit: "cups", Name: "flour"}},
		{"1/2 tsp salt", recipe.Ingredient{Quantity: 0.5, Unit: "tsp", Name: "salt"}},
		{"1 1/2 cups sugar", recipe.Ingredient{Quantity: 1.5, Unit: "cups", Name: "sugar"}},
		{"3 eggs", recipe.Ingredient{Quantity: 3, Name: "eggs"}},
		{"salt to taste", recipe.Ingredient{Quantity: 1, Name: "salt to taste"}},
		{"400 g spaghetti", recipe.Ingredient{Quantity: 400, Unit: "g", Name: "spaghetti"}},
		{"2 cloves garlic, minced", recipe.Ingredient{Quantity: 2, Unit: "cloves", Name: "garlic, minced"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseIngredientLine(tt.line)
			if got.Quantity != tt.want.Quantity {
				t.Errorf("Quantity: expected %g, got %g", tt.want.Quantity, got.Quantity)
			}
			if got.Unit != tt.want.Unit {
				t.Errorf("Unit: expected %q, got %q", tt.want.Unit, got.Unit)
			}
			if got.Name != tt.want.Name {
				t.Errorf("Name: expected %q, got %q", tt.want.Name, got.Name)
			}
		})
	}
}

func TestParseISODurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT30M", 30},
		{"PT1H", 60},
		{"PT1H30M", 90},
		{"pt45m", 45},
		{"", 0},
		{"45 minutes", 0},
		{"P1D", 0},
	}

	for _, tt := range tests {
		if got := ParseISODurationMinutes(tt.in); got != tt.want {
			t.Errorf("ParseISODurationMinutes(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
