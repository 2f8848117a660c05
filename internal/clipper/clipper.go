package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"meal-rotation-planner/internal/recipe"
)

// Clipper imports recipes from web pages that publish schema.org/Recipe
// structured data (JSON-LD, with a microdata fallback).
type Clipper struct {
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper() *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL and extracts a recipe from its structured data.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return ExtractFromDocument(doc)
}

// jsonldRecipe mirrors the schema.org/Recipe fields we consume. Schema.org
// values are loosely typed, hence the json.RawMessage fields.
type jsonldRecipe struct {
	Type               json.RawMessage `json:"@type"`
	Graph              []jsonldRecipe  `json:"@graph"`
	Name               string          `json:"name"`
	RecipeIngredient   []string        `json:"recipeIngredient"`
	Ingredients        []string        `json:"ingredients"` // legacy field name
	PrepTime           string          `json:"prepTime"`
	CookTime           string          `json:"cookTime"`
	TotalTime          string          `json:"totalTime"`
	RecipeCuisine      json.RawMessage `json:"recipeCuisine"`
	RecipeCategory     json.RawMessage `json:"recipeCategory"`
	SuitableForDiet    json.RawMessage `json:"suitableForDiet"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
}

// ExtractFromDocument pulls the first schema.org/Recipe object out of a
// parsed page and maps it onto the planner's recipe model. Fields the page
// does not declare get conservative defaults.
func ExtractFromDocument(doc *goquery.Document) (*recipe.Recipe, error) {
	var found *jsonldRecipe

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var node jsonldRecipe
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			// Some pages wrap multiple objects in a top-level array.
			var nodes []jsonldRecipe
			if err := json.Unmarshal([]byte(s.Text()), &nodes); err != nil {
				return true
			}
			for i := range nodes {
				if isRecipeNode(&nodes[i]) {
					found = &nodes[i]
					return false
				}
			}
			return true
		}
		if isRecipeNode(&node) {
			found = &node
			return false
		}
		for i := range node.Graph {
			if isRecipeNode(&node.Graph[i]) {
				found = &node.Graph[i]
				return false
			}
		}
		return true
	})

	if found == nil {
		var err error
		found, err = extractMicrodata(doc)
		if err != nil {
			return nil, err
		}
	}

	return mapToRecipe(found)
}

func isRecipeNode(node *jsonldRecipe) bool {
	if len(node.Type) == 0 {
		return false
	}
	var single string
	if err := json.Unmarshal(node.Type, &single); err == nil {
		return single == "Recipe"
	}
	var many []string
	if err := json.Unmarshal(node.Type, &many); err == nil {
		for _, t := range many {
			if t == "Recipe" {
				return true
			}
		}
	}
	return false
}

// extractMicrodata is the fallback for pages using itemprop markup instead
// of JSON-LD.
func extractMicrodata(doc *goquery.Document) (*jsonldRecipe, error) {
	scope := doc.Find(`[itemtype$="schema.org/Recipe"]`).First()
	if scope.Length() == 0 {
		return nil, fmt.Errorf("no schema.org/Recipe structured data found on page")
	}

	node := &jsonldRecipe{}
	node.Name = strings.TrimSpace(scope.Find(`[itemprop="name"]`).First().Text())
	scope.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
		if line := strings.TrimSpace(s.Text()); line != "" {
			node.RecipeIngredient = append(node.RecipeIngredient, line)
		}
	})
	node.PrepTime, _ = scope.Find(`[itemprop="prepTime"]`).First().Attr("content")
	node.CookTime, _ = scope.Find(`[itemprop="cookTime"]`).First().Attr("content")
	if cuisine := strings.TrimSpace(scope.Find(`[itemprop="recipeCuisine"]`).First().Text()); cuisine != "" {
		node.RecipeCuisine = json.RawMessage(strconv.Quote(cuisine))
	}
	if category := strings.TrimSpace(scope.Find(`[itemprop="recipeCategory"]`).First().Text()); category != "" {
		node.RecipeCategory = json.RawMessage(strconv.Quote(category))
	}
	return node, nil
}

func mapToRecipe(node *jsonldRecipe) (*recipe.Recipe, error) {
	if node.Name == "" {
		return nil, fmt.Errorf("structured data has no recipe name")
	}

	lines := node.RecipeIngredient
	if len(lines) == 0 {
		lines = node.Ingredients
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("structured data has no ingredients for %q", node.Name)
	}

	ingredients := make([]recipe.Ingredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, ParseIngredientLine(line))
	}

	prep := ParseISODurationMinutes(node.PrepTime)
	cook := ParseISODurationMinutes(node.CookTime)
	if prep == 0 && cook == 0 {
		cook = ParseISODurationMinutes(node.TotalTime)
	}

	category := firstString(node.RecipeCategory)
	rec := &recipe.Recipe{
		ID:              uuid.NewString(),
		Title:           node.Name,
		Course:          guessCourse(category),
		Complexity:      guessComplexity(prep + cook),
		Cuisine:         guessCuisine(firstString(node.RecipeCuisine)),
		PrepTimeMinutes: prep,
		CookTimeMinutes: cook,
		Ingredients:     ingredients,
		Instructions:    instructionsText(node.RecipeInstructions),
		UpdatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if rec.Course == recipe.CourseMainCourse {
		// Imported mains default to taking a side; the user can edit.
		rec.AcceptsAccompaniment = true
	}
	if rec.Course == recipe.CourseAccompaniment {
		rec.Category = guessAccompanimentCategory(node.Name, category)
	}

	for _, diet := range allStrings(node.SuitableForDiet) {
		if tag, ok := dietTagForSchema(diet); ok {
			rec.DietTags = append(rec.DietTags, tag)
		}
	}

	return rec, nil
}

// firstString reads a schema.org value that may be a string or an array of
// strings.
func firstString(raw json.RawMessage) string {
	all := allStrings(raw)
	if len(all) == 0 {
		return ""
	}
	return all[0]
}

// instructionsText flattens schema.org recipeInstructions, which may be a
// plain string, a string array, or an array of HowToStep objects.
func instructionsText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if all := allStrings(raw); len(all) > 0 {
		return strings.Join(all, "\n")
	}
	var steps []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &steps); err != nil {
		return ""
	}
	var lines []string
	for _, step := range steps {
		if step.Text != "" {
			lines = append(lines, step.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func allStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func guessCourse(category string) recipe.Course {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "dessert"), strings.Contains(c, "cake"), strings.Contains(c, "sweet"):
		return recipe.CourseDessert
	case strings.Contains(c, "appetizer"), strings.Contains(c, "starter"), strings.Contains(c, "snack"):
		return recipe.CourseAppetizer
	case strings.Contains(c, "side"):
		return recipe.CourseAccompaniment
	default:
		return recipe.CourseMainCourse
	}
}

func guessComplexity(totalMinutes int) recipe.Complexity {
	switch {
	case totalMinutes <= 30:
		return recipe.ComplexitySimple
	case totalMinutes <= 60:
		return recipe.ComplexityModerate
	default:
		return recipe.ComplexityComplex
	}
}

var cuisineByName = map[string]recipe.CuisineKind{
	"italian":       recipe.CuisineItalian,
	"mexican":       recipe.CuisineMexican,
	"chinese":       recipe.CuisineChinese,
	"japanese":      recipe.CuisineJapanese,
	"indian":        recipe.CuisineIndian,
	"thai":          recipe.CuisineThai,
	"french":        recipe.CuisineFrench,
	"mediterranean": recipe.CuisineMediterranean,
	"american":      recipe.CuisineAmerican,
}

func guessCuisine(name string) recipe.Cuisine {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return recipe.NewCuisine(recipe.CuisineOther)
	}
	if kind, ok := cuisineByName[strings.ToLower(trimmed)]; ok {
		return recipe.NewCuisine(kind)
	}
	return recipe.NewCustomCuisine(trimmed)
}

func guessAccompanimentCategory(name, category string) recipe.AccompanimentCategory {
	text := strings.ToLower(name + " " + category)
	switch {
	case strings.Contains(text, "salad"):
		return recipe.CategorySalad
	case strings.Contains(text, "bread"), strings.Contains(text, "roll"):
		return recipe.CategoryBread
	case strings.Contains(text, "potato"), strings.Contains(text, "fries"):
		return recipe.CategoryPotato
	case strings.Contains(text, "rice"), strings.Contains(text, "grain"), strings.Contains(text, "couscous"):
		return recipe.CategoryGrain
	case strings.Contains(text, "sauce"), strings.Contains(text, "dip"):
		return recipe.CategorySauce
	default:
		return recipe.CategoryVegetable
	}
}

func dietTagForSchema(diet string) (recipe.DietTag, bool) {
	d := strings.ToLower(diet)
	switch {
	case strings.Contains(d, "vegan"):
		return recipe.TagVegan, true
	case strings.Contains(d, "vegetarian"):
		return recipe.TagVegetarian, true
	case strings.Contains(d, "glutenfree"), strings.Contains(d, "gluten-free"):
		return recipe.TagGlutenFree, true
	case strings.Contains(d, "lowlactose"), strings.Contains(d, "dairy"):
		return recipe.TagDairyFree, true
	case strings.Contains(d, "lowcarb"):
		return recipe.TagLowCarb, true
	default:
		return "", false
	}
}

// ParseIngredientLine splits a free-text line like "2 cups flour" into a
// structured ingredient. Lines without a leading quantity come back with
// Quantity 1 and the whole line as the name.
func ParseIngredientLine(line string) recipe.Ingredient {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return recipe.Ingredient{Quantity: 1}
	}

	qty, ok := parseQuantity(fields[0])
	if !ok {
		return recipe.Ingredient{Name: strings.Join(fields, " "), Quantity: 1}
	}
	rest := fields[1:]

	// "1 1/2 cups" style mixed numbers.
	if len(rest) > 0 {
		if frac, ok := parseFraction(rest[0]); ok {
			qty += frac
			rest = rest[1:]
		}
	}

	if len(rest) == 0 {
		return recipe.Ingredient{Quantity: qty}
	}

	if _, known := unitWords[strings.ToLower(strings.TrimSuffix(rest[0], "."))]; known && len(rest) > 1 {
		return recipe.Ingredient{
			Quantity: qty,
			Unit:     strings.ToLower(strings.TrimSuffix(rest[0], ".")),
			Name:     strings.Join(rest[1:], " "),
		}
	}
	return recipe.Ingredient{Quantity: qty, Name: strings.Join(rest, " ")}
}

var unitWords = map[string]struct{}{
	"cup": {}, "cups": {}, "tsp": {}, "teaspoon": {}, "teaspoons": {},
	"tbsp": {}, "tablespoon": {}, "tablespoons": {}, "g": {}, "gram": {},
	"grams": {}, "kg": {}, "ml": {}, "l": {}, "liter": {}, "liters": {},
	"oz": {}, "ounce": {}, "ounces": {}, "lb": {}, "lbs": {}, "pound": {},
	"pounds": {}, "clove": {}, "cloves": {}, "pinch": {}, "slice": {},
	"slices": {}, "can": {}, "cans": {}, "bunch": {},
}

func parseQuantity(s string) (float64, bool) {
	if frac, ok := parseFraction(s); ok {
		return frac, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

// ParseISODurationMinutes converts an ISO 8601 duration such as "PT1H30M"
// to whole minutes. Unparseable input yields 0.
func ParseISODurationMinutes(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "PT") {
		return 0
	}
	s = strings.TrimPrefix(s, "PT")

	minutes := 0
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H':
			if v, err := strconv.Atoi(num); err == nil {
				minutes += v * 60
			}
			num = ""
		case r == 'M':
			if v, err := strconv.Atoi(num); err == nil {
				minutes += v
			}
			num = ""
		default:
			num = ""
		}
	}
	return minutes
}
