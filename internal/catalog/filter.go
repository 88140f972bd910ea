package catalog

import (
	"sort"
	"strings"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/shopspring/decimal"
)

// SortKey selects the ordering of a filtered listing.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// DefaultPriceMax is the upper bound of the storefront price slider.
var DefaultPriceMax = decimal.NewFromInt(5000)

// ParseSortKey validates a sort key. An empty key means featured.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortRating:
		return k, nil
	default:
		return "", domain.Errorf(domain.EINVALID, "catalog.sort", "unknown sort key: %s", s)
	}
}

// FilterSpec describes one storefront listing query. The lower price bound
// is always zero; a nil PriceMax leaves the upper bound open.
type FilterSpec struct {
	Category string
	Brand    string
	PriceMax *decimal.Decimal
	Search   string
	Sort     SortKey
}

// Filter returns the products matching spec in the requested order.
// The input slice is left untouched and the result is always a new slice.
func Filter(products []domain.Product, spec FilterSpec) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(spec.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !IsAllCategories(spec.Category) && !Matches(p.Category, spec.Category) {
			continue
		}
		if !IsAllBrands(spec.Brand) && p.Brand != spec.Brand {
			continue
		}
		if p.Price.IsNegative() {
			continue
		}
		if spec.PriceMax != nil && p.Price.GreaterThan(*spec.PriceMax) {
			continue
		}
		if query != "" && !containsQuery(p, query) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, spec.Sort)
	return out
}

func containsQuery(p domain.Product, query string) bool {
	for _, field := range []string{p.Name, p.Description, p.Category, p.Brand} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func sortProducts(ps []domain.Product, key SortKey) {
	var less func(a, b domain.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b domain.Product) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b domain.Product) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

// CategoryCount is the badge value for one canonical category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryCounts returns, for every canonical category including the
// AllCategories sentinel, how many products Filter would return for it.
func CategoryCounts(products []domain.Product) []CategoryCount {
	counts := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		n := len(Filter(products, FilterSpec{Category: c}))
		counts = append(counts, CategoryCount{Category: c, Count: n})
	}
	return counts
}
