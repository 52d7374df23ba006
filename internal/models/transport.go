package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

const fieldRequired = "This field is required."

type (
	UserCreateRequest struct {
		Email    string `json:"email" validate:"required,email,max=255"`
		Password string `json:"password" validate:"required,min=5,max=128"`
		Name     string `json:"name" validate:"required,max=255"`
	}

	UserUpdateRequest struct {
		Email    *string `json:"email" validate:"omitempty,email,max=255"`
		Password *string `json:"password" validate:"omitempty,min=5,max=128"`
		Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	}

	TokenRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	UserResponse struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	TagRequest struct {
		Name *string `json:"name" validate:"omitempty,min=1,max=256"`
	}

	IngredientRequest struct {
		Name *string `json:"name" validate:"omitempty,min=1,max=255"`
	}

	TagResponse struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	IngredientResponse struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	// NestedName is a tag or ingredient embedded in a recipe payload.
	NestedName struct {
		Name string `json:"name" validate:"required,max=255"`
	}

	RecipeRequest struct {
		Title       *string          `json:"title" validate:"omitempty,min=1,max=512"`
		Description *string          `json:"description"`
		TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gte=0"`
		Price       *decimal.Decimal `json:"price" validate:"-"`
		Link        *string          `json:"link" validate:"omitempty,max=1024,url_or_blank"`
		Tags        []NestedName     `json:"tags" validate:"omitempty,dive"`
		Ingredients []NestedName     `json:"ingredients" validate:"omitempty,dive"`
	}

	// RecipeSummary is the list representation of a recipe.
	RecipeSummary struct {
		ID          uint                 `json:"id"`
		Title       string               `json:"title"`
		TimeMinutes int                  `json:"time_minutes"`
		Price       string               `json:"price"`
		Link        string               `json:"link"`
		Tags        []TagResponse        `json:"tags"`
		Ingredients []IngredientResponse `json:"ingredients"`
	}

	// RecipeDetail is the single-item representation: the summary plus
	// description and image.
	RecipeDetail struct {
		RecipeSummary
		Description string  `json:"description"`
		Image       *string `json:"image"`
	}

	RecipeImageResponse struct {
		ID    uint    `json:"id"`
		Image *string `json:"image"`
	}
)

// MissingRequired lists the fields a full write (create or PUT) must carry.
func (r *UserUpdateRequest) MissingRequired() map[string]string {
	missing := map[string]string{}
	if r.Email == nil {
		missing["email"] = fieldRequired
	}
	if r.Password == nil {
		missing["password"] = fieldRequired
	}
	if r.Name == nil {
		missing["name"] = fieldRequired
	}
	return missing
}

func (r *TagRequest) MissingRequired() map[string]string {
	if r.Name == nil {
		return map[string]string{"name": fieldRequired}
	}
	return map[string]string{}
}

func (r *IngredientRequest) MissingRequired() map[string]string {
	if r.Name == nil {
		return map[string]string{"name": fieldRequired}
	}
	return map[string]string{}
}

func (r *RecipeRequest) MissingRequired() map[string]string {
	missing := map[string]string{}
	if r.Title == nil {
		missing["title"] = fieldRequired
	}
	if r.TimeMinutes == nil {
		missing["time_minutes"] = fieldRequired
	}
	if r.Price == nil {
		missing["price"] = fieldRequired
	}
	return missing
}

// TagNames returns the nested tag names, trimmed and deduplicated in order.
func (r *RecipeRequest) TagNames() []string {
	return uniqueNames(r.Tags)
}

// IngredientNames returns the nested ingredient names, trimmed and
// deduplicated in order.
func (r *RecipeRequest) IngredientNames() []string {
	return uniqueNames(r.Ingredients)
}

func uniqueNames(entries []NestedName) []string {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

func NewTagResponse(t *Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

func NewTagResponses(tags []Tag) []TagResponse {
	resp := make([]TagResponse, len(tags))
	for i := range tags {
		resp[i] = NewTagResponse(&tags[i])
	}
	return resp
}

func NewIngredientResponse(i *Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name}
}

func NewIngredientResponses(ingredients []Ingredient) []IngredientResponse {
	resp := make([]IngredientResponse, len(ingredients))
	for i := range ingredients {
		resp[i] = NewIngredientResponse(&ingredients[i])
	}
	return resp
}

func NewRecipeSummary(r *Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        NewTagResponses(r.Tags),
		Ingredients: NewIngredientResponses(r.Ingredients),
	}
}

func NewRecipeSummaries(recipes []Recipe) []RecipeSummary {
	resp := make([]RecipeSummary, len(recipes))
	for i := range recipes {
		resp[i] = NewRecipeSummary(&recipes[i])
	}
	return resp
}

// NewRecipeDetail renders the full recipe; mediaURL prefixes the stored image path.
func NewRecipeDetail(r *Recipe, mediaURL string) RecipeDetail {
	return RecipeDetail{
		RecipeSummary: NewRecipeSummary(r),
		Description:   r.Description,
		Image:         ImageURL(r.Image, mediaURL),
	}
}

func NewRecipeImageResponse(r *Recipe, mediaURL string) RecipeImageResponse {
	return RecipeImageResponse{ID: r.ID, Image: ImageURL(r.Image, mediaURL)}
}

// ImageURL joins the media URL prefix and a stored relative path; an empty
// path renders as null.
func ImageURL(path, mediaURL string) *string {
	if path == "" {
		return nil
	}
	u := strings.TrimSuffix(mediaURL, "/") + "/" + strings.TrimPrefix(path, "/")
	return &u
}
