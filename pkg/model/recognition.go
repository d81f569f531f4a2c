package model

import (
	"strings"
)

// InlineImagePrefix marks an image field that embeds the image data itself
const InlineImagePrefix = "data:image"

// UnknownSeafoodName is used when the recognizer returns no primary subject name
const UnknownSeafoodName = "Unknown seafood"

// IsInlineImage reports whether an image reference embeds its data
func IsInlineImage(image string) bool {
	return strings.HasPrefix(image, InlineImagePrefix)
}

// RecognitionResult is the identification payload returned for one image
type RecognitionResult struct {
	Seafood     *Seafood      `json:"seafoodPO"`
	Recipes     []*Recipe     `json:"recipePOList"`
	Ingredients []*Ingredient `json:"ingredientPOList"`
}

// Seafood is the primary subject of a recognition result
type Seafood struct {
	ID     int    `json:"seafoodId,omitempty" jsonschema:"Seafood identifier"`
	Name   string `json:"seafoodName,omitempty" jsonschema:"Common name of the seafood species"`
	Brief  string `json:"seafoodBrief,omitempty" jsonschema:"Nutrition and flavor description"`
	Image  string `json:"seafoodImage,omitempty" jsonschema:"Image URL of the seafood"`
	Views  int    `json:"views,omitempty" jsonschema:"View counter"`
	Season int    `json:"season,omitempty" jsonschema:"Month number of the best season"`
	Tags   string `json:"tags,omitempty" jsonschema:"Tags separated by slash"`
	Cost   Price  `json:"cost,omitempty" jsonschema:"Price per pound in USD"`
}

type Recipe struct {
	ID    int    `json:"recipeId,omitempty" jsonschema:"Recipe identifier"`
	Name  string `json:"recipeName,omitempty" jsonschema:"Recipe name"`
	Brief string `json:"recipeBrief,omitempty" jsonschema:"Short cooking instructions"`
	Image string `json:"recipeImage,omitempty" jsonschema:"Image URL of the dish"`
}

type Ingredient struct {
	ID    int    `json:"ingredientId,omitempty" jsonschema:"Ingredient identifier"`
	Name  string `json:"ingredientName,omitempty" jsonschema:"Ingredient name"`
	Image string `json:"ingredientImage,omitempty" jsonschema:"Image URL of the ingredient"`
	Price Price  `json:"ingredientPrice,omitempty" jsonschema:"Price in USD"`
	Pic   string `json:"ingredientPic,omitempty" jsonschema:"Shop picture of the ingredient"`
}

// PrimaryName returns the name of the primary subject, or UnknownSeafoodName
func (x *RecognitionResult) PrimaryName() string {
	if x.Seafood == nil || x.Seafood.Name == "" {
		return UnknownSeafoodName
	}
	return x.Seafood.Name
}

// Clone returns a deep copy of the result
func (x *RecognitionResult) Clone() *RecognitionResult {
	c := &RecognitionResult{}
	if x.Seafood != nil {
		s := *x.Seafood
		c.Seafood = &s
	}
	if x.Recipes != nil {
		c.Recipes = make([]*Recipe, len(x.Recipes))
		for i, r := range x.Recipes {
			if r != nil {
				v := *r
				c.Recipes[i] = &v
			}
		}
	}
	if x.Ingredients != nil {
		c.Ingredients = make([]*Ingredient, len(x.Ingredients))
		for i, ing := range x.Ingredients {
			if ing != nil {
				v := *ing
				c.Ingredients[i] = &v
			}
		}
	}
	return c
}

// WithoutInlineImages returns a deep copy with every data URI image field
// cleared. URLs and empty fields are kept as they are.
func (x *RecognitionResult) WithoutInlineImages() *RecognitionResult {
	c := x.Clone()
	if c.Seafood != nil && IsInlineImage(c.Seafood.Image) {
		c.Seafood.Image = ""
	}
	for _, r := range c.Recipes {
		if r != nil && IsInlineImage(r.Image) {
			r.Image = ""
		}
	}
	for _, ing := range c.Ingredients {
		if ing != nil && IsInlineImage(ing.Image) {
			ing.Image = ""
		}
	}
	return c
}

// Minimal returns a copy holding only ids, names and brief text. All image
// fields and shop details are dropped.
func (x *RecognitionResult) Minimal() *RecognitionResult {
	c := &RecognitionResult{}
	if x.Seafood != nil {
		c.Seafood = &Seafood{
			ID:    x.Seafood.ID,
			Name:  x.Seafood.Name,
			Brief: x.Seafood.Brief,
		}
	}
	if x.Recipes != nil {
		c.Recipes = make([]*Recipe, 0, len(x.Recipes))
		for _, r := range x.Recipes {
			if r == nil {
				continue
			}
			c.Recipes = append(c.Recipes, &Recipe{ID: r.ID, Name: r.Name, Brief: r.Brief})
		}
	}
	if x.Ingredients != nil {
		c.Ingredients = make([]*Ingredient, 0, len(x.Ingredients))
		for _, ing := range x.Ingredients {
			if ing == nil {
				continue
			}
			c.Ingredients = append(c.Ingredients, &Ingredient{ID: ing.ID, Name: ing.Name})
		}
	}
	return c
}

// Summary is a display form of a recognition result
type Summary struct {
	Name            string
	NutritionFlavor string
	Recipes         string
	FullRecipes     string
	Ingredients     []string
}

// Summarize converts the result into display text
func (x *RecognitionResult) Summarize() *Summary {
	s := &Summary{
		Name:            x.PrimaryName(),
		NutritionFlavor: "No information yet",
	}
	if x.Seafood != nil && x.Seafood.Brief != "" {
		s.NutritionFlavor = x.Seafood.Brief
	}

	var names, briefs []string
	for _, r := range x.Recipes {
		if r == nil {
			continue
		}
		if r.Name != "" {
			names = append(names, r.Name)
		}
		switch {
		case r.Brief != "":
			briefs = append(briefs, r.Brief)
		case r.Name != "":
			briefs = append(briefs, r.Name)
		}
	}
	if len(names) > 0 {
		s.Recipes = "Recommended recipes: " + strings.Join(names, ", ")
	} else {
		s.Recipes = "No recommended recipes"
	}
	if len(briefs) > 0 {
		s.FullRecipes = strings.Join(briefs, "\n")
	} else {
		s.FullRecipes = s.Recipes
	}

	for _, ing := range x.Ingredients {
		if ing != nil && ing.Name != "" {
			s.Ingredients = append(s.Ingredients, ing.Name)
		}
	}
	if len(s.Ingredients) == 0 {
		s.Ingredients = []string{"No ingredient information"}
	}

	return s
}
