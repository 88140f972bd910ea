package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name, category, brand string, price string, featured bool, rating float64) domain.Product {
	return domain.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Brand:    brand,
		Price:    decimal.RequireFromString(price),
		Featured: featured,
		Rating:   rating,
	}
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestMatches_EveryAliasMatchesItsCategory(t *testing.T) {
	for _, c := range Categories() {
		for _, alias := range Aliases(c) {
			assert.Truef(t, Matches(alias, c), "alias %q should match %q", alias, c)
			assert.Truef(t, Matches("  "+alias+" ", c), "padded alias %q should match %q", alias, c)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		selected string
		want     bool
	}{
		{"exact case-insensitive", "gpu", "GPU", true},
		{"raw contains alias", "SSD NVMe 1TB", "SSD", true},
		{"alias contains raw", "mae", "Placa-Mãe", true},
		{"portuguese alias", "Armazenamento", "SSD", true},
		{"english alias", "Power Supply", "Fonte", true},
		{"unmapped category exact only", "Monitor", "Monitor", true},
		{"unmapped category no fuzzy", "Monitor 4K", "Monitor", false},
		{"different category", "GPU", "CPU", false},
		{"empty raw", "", "SSD", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.raw, tt.selected))
		})
	}
}

func TestFilter_FeaturedSortIsStable(t *testing.T) {
	a := product("A", "GPU", "NVIDIA", "10", false, 0)
	b := product("B", "GPU", "NVIDIA", "10", true, 0)
	c := product("C", "GPU", "NVIDIA", "10", false, 0)
	d := product("D", "GPU", "NVIDIA", "10", true, 0)

	got := Filter([]domain.Product{a, b, c, d}, FilterSpec{Sort: SortFeatured})

	assert.Equal(t, []string{"B", "D", "A", "C"}, names(got))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := []domain.Product{
		product("Cheap", "RAM", "Corsair", "50", false, 3),
		product("Pricey", "RAM", "Corsair", "300", false, 5),
	}
	snapshot := names(in)

	_ = Filter(in, FilterSpec{Sort: SortPriceDesc})

	assert.Equal(t, snapshot, names(in))
}

func TestFilter_PureAndIdempotent(t *testing.T) {
	limit := decimal.NewFromInt(500)
	products := []domain.Product{
		product("RTX 4070", "GPU", "NVIDIA", "599.99", true, 4.8),
		product("RX 7600", " gpu ", "AMD", "279.00", false, 4.4),
		product("Ryzen 5", "CPU", "AMD", "199.00", true, 4.7),
		product("970 EVO", "armazenamento", "Samsung", "89.90", false, 4.9),
		product("Arc A750", "GPU", "Intel", "219.00", false, 4.1),
	}
	spec := FilterSpec{Category: "GPU", PriceMax: &limit, Sort: SortRating}

	first := Filter(products, spec)
	second := Filter(products, spec)
	again := Filter(first, spec)

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
	assert.Equal(t, []string{"RX 7600", "Arc A750"}, names(first))
}

func TestFilter_Criteria(t *testing.T) {
	products := []domain.Product{
		product("RTX 4090", "GPU", "NVIDIA", "1999.00", true, 5),
		product("Ryzen 9", "CPU", "AMD", "549.00", false, 4.9),
		product("Vengeance", "RAM", "Corsair", "120.00", false, 4.5),
		product("HX1000", "Fonte de alimentação", "Corsair", "220.00", false, 4.6),
		product("Free cable", "cabos", "CableMod", "0", false, 0),
	}
	hundred := decimal.NewFromInt(100)
	twoTwenty := decimal.NewFromInt(220)

	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{"all sentinels", FilterSpec{Category: AllCategories, Brand: AllBrands}, []string{"RTX 4090", "Ryzen 9", "Vengeance", "HX1000", "Free cable"}},
		{"brand exact", FilterSpec{Brand: "Corsair"}, []string{"Vengeance", "HX1000"}},
		{"brand is case sensitive", FilterSpec{Brand: "corsair"}, []string{}},
		{"price max inclusive", FilterSpec{PriceMax: &twoTwenty, Sort: SortPriceAsc}, []string{"Free cable", "Vengeance", "HX1000"}},
		{"zero price kept", FilterSpec{PriceMax: &hundred}, []string{"Free cable"}},
		{"search any field", FilterSpec{Search: "  ALIMENTA "}, []string{"HX1000"}},
		{"search brand", FilterSpec{Search: "amd"}, []string{"Ryzen 9"}},
		{"alias category", FilterSpec{Category: "Fonte"}, []string{"HX1000"}},
		{"price desc", FilterSpec{Sort: SortPriceDesc, Brand: "Corsair"}, []string{"HX1000", "Vengeance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(products, tt.spec)))
		})
	}
}

func TestCategoryCounts_MatchFilterLength(t *testing.T) {
	products := []domain.Product{
		product("P1", "motherboard", "ASUS", "150", false, 0),
		product("P2", "Placa Mae", "MSI", "140", false, 0),
		product("P3", "nvme", "Samsung", "90", false, 0),
		product("P4", "HDD", "Seagate", "60", false, 0),
		product("P5", "gabinete", "NZXT", "100", false, 0),
		product("P6", "GPU", "NVIDIA", "700", false, 0),
		product("P7", "headset", "HyperX", "80", false, 0),
	}

	counts := CategoryCounts(products)
	require.Len(t, counts, len(Categories()))

	byName := map[string]int{}
	for _, c := range counts {
		byName[c.Category] = c.Count
		assert.Equal(t, len(Filter(products, FilterSpec{Category: c.Category})), c.Count, c.Category)
	}

	assert.Equal(t, 7, byName[AllCategories])
	assert.Equal(t, 2, byName["Placa-Mãe"])
	assert.Equal(t, 2, byName["SSD"])
	assert.Equal(t, 1, byName["Torre"])
	assert.Equal(t, 1, byName["GPU"])
	assert.Equal(t, 1, byName["Fones de Ouvido"])
	assert.Equal(t, 0, byName["Monitor"])
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, k)

	k, err = ParseSortKey("price-asc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, k)

	_, err = ParseSortKey("newest")
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}
