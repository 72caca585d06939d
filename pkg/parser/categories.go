package parser

import (
	"strings"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/config"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// TechMatchesCategory reports whether a technology belongs to the named
// category. Exact entries are checked before prefixes; an unknown category
// name never matches.
func TechMatchesCategory(tech, category string, categories config.TechCategories) bool {
	cat, ok := categories.Get(category)
	if !ok {
		return false
	}
	for _, exact := range cat.Exact {
		if tech == exact {
			return true
		}
	}
	for _, prefix := range cat.Prefixes {
		if strings.HasPrefix(tech, prefix) {
			return true
		}
	}
	return false
}

// GetTechnologyCategories lists every category a technology matches, in
// category declaration order.
func GetTechnologyCategories(tech string, categories config.TechCategories) result.Result[[]string] {
	var matches []string
	for _, cat := range categories {
		if TechMatchesCategory(tech, cat.Name, categories) {
			matches = append(matches, cat.Name)
		}
	}
	return result.Ok(matches)
}

// GetTechnologyCategory returns the primary (first-matching) category of a
// technology, or a not-found error when no category claims it.
func GetTechnologyCategory(tech string, categories config.TechCategories) result.Result[string] {
	for _, cat := range categories {
		if TechMatchesCategory(tech, cat.Name, categories) {
			return result.Ok(cat.Name)
		}
	}
	return result.Err[string](errors.Newf(errors.ErrorTypeNotFound,
		"no category matches technology %q", tech))
}

// GetGeneratorVariant resolves the generator variant for a technology: the
// first matching category that has a variant mapping entry wins.
// Technologies with no category, or whose categories all map to no variant,
// are a type error.
func GetGeneratorVariant(
	tech string,
	categories config.TechCategories,
	variants config.VariantMappings,
) result.Result[models.GeneratorVariant] {
	matched := GetTechnologyCategories(tech, categories).Unwrap()
	if len(matched) == 0 {
		return result.Err[models.GeneratorVariant](errors.Newf(errors.ErrorTypeType,
			"no generator variant for technology %q: no matching category", tech))
	}
	for _, category := range matched {
		for _, m := range variants {
			if m.Category == category {
				return result.Ok(models.GeneratorVariant(m.Variant))
			}
		}
	}
	return result.Err[models.GeneratorVariant](errors.Newf(errors.ErrorTypeType,
		"no generator variant for technology %q: categories %v are unmapped", tech, matched))
}
