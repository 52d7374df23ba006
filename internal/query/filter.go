// Package query turns list query parameters into owner-scoped SQL predicates.
//
// Each resource declares the parameters it accepts; anything else in the
// query string is ignored. Parameter values are comma separated lists and an
// absent or empty parameter does not restrict the result.
package query

import (
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"recipebox/internal/apperr"
)

// Param is a filterable query parameter.
type Param string

const (
	ParamID          Param = "id"
	ParamName        Param = "name"
	ParamTitle       Param = "title"
	ParamTags        Param = "tags"
	ParamIngredients Param = "ingredients"
)

// Allow-lists per resource.
var (
	TagParams        = []Param{ParamID, ParamName}
	IngredientParams = []Param{ParamID, ParamName}
	RecipeParams     = []Param{ParamID, ParamTitle, ParamTags, ParamIngredients}
)

// Filter holds the parsed restrictions. Names carries either `name` or
// `title`, whichever the resource allows.
type Filter struct {
	IDs           []uint
	Names         []string
	TagIDs        []uint
	IngredientIDs []uint
}

// Join describes a many-to-many link table used by a relation filter.
type Join struct {
	Table     string // link table, e.g. recipe_tags
	OwnColumn string // column referencing the filtered table
	RefColumn string // column referencing the related row
}

// Scope names the table being filtered and who owns the rows.
type Scope struct {
	Table       string
	NameColumn  string
	OwnerID     uint
	Tags        *Join
	Ingredients *Join
}

// Parse reads the allowed parameters from params.
func Parse(params map[string]string, allowed []Param) (Filter, error) {
	var (
		f   Filter
		err error
	)
	for _, p := range allowed {
		raw := strings.TrimSpace(params[string(p)])
		if raw == "" {
			continue
		}
		switch p {
		case ParamID:
			f.IDs, err = parseIDs(p, raw)
		case ParamName, ParamTitle:
			f.Names = parseNames(raw)
		case ParamTags:
			f.TagIDs, err = parseIDs(p, raw)
		case ParamIngredients:
			f.IngredientIDs, err = parseIDs(p, raw)
		}
		if err != nil {
			return Filter{}, err
		}
	}
	return f, nil
}

// Empty reports whether the filter restricts nothing beyond ownership.
func (f Filter) Empty() bool {
	return len(f.IDs) == 0 && len(f.Names) == 0 && len(f.TagIDs) == 0 && len(f.IngredientIDs) == 0
}

// Where builds the predicate: owner match AND every present restriction.
func (f Filter) Where(s Scope) (string, []interface{}, error) {
	col := func(name string) string { return s.Table + "." + name }

	pred := squirrel.And{squirrel.Eq{col("user_id"): s.OwnerID}}
	if len(f.IDs) > 0 {
		pred = append(pred, squirrel.Eq{col("id"): f.IDs})
	}
	if len(f.Names) > 0 && s.NameColumn != "" {
		pred = append(pred, squirrel.Eq{col(s.NameColumn): f.Names})
	}
	if len(f.TagIDs) > 0 && s.Tags != nil {
		pred = append(pred, linkedTo(col("id"), *s.Tags, f.TagIDs))
	}
	if len(f.IngredientIDs) > 0 && s.Ingredients != nil {
		pred = append(pred, linkedTo(col("id"), *s.Ingredients, f.IngredientIDs))
	}
	return pred.ToSql()
}

func linkedTo(idColumn string, j Join, ids []uint) squirrel.Sqlizer {
	sub := squirrel.Select(j.OwnColumn).From(j.Table).Where(squirrel.Eq{j.RefColumn: ids})
	return squirrel.Expr(idColumn+" IN (?)", sub)
}

func parseIDs(p Param, raw string) ([]uint, error) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, apperr.InvalidParameter(string(p), raw)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func parseNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
