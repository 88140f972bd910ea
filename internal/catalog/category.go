// Package catalog normalizes product categories and filters the product list
// shown on the storefront.
package catalog

import "strings"

// AllCategories and AllBrands are the "no filter" sentinels.
const (
	AllCategories = "Todos"
	AllBrands     = "Todas"
)

// categories is the canonical display order.
var categories = []string{
	AllCategories,
	"GPU",
	"CPU",
	"RAM",
	"SSD",
	"Placa-Mãe",
	"Fonte",
	"Cabos",
	"Torre",
	"Refrigeração",
	"Monitor",
	"Fones de Ouvido",
	"Microfone",
	"Tapete de Mouse",
	"Suporte",
	"Adaptador",
	"Periféricos",
	"PC Completo",
}

var brands = []string{
	AllBrands,
	"NVIDIA", "AMD", "Intel", "Corsair", "Samsung", "ASUS", "MSI", "Logitech",
	"G.Skill", "Western Digital", "Crucial", "Kingston", "Seagate", "Gigabyte",
	"ASRock", "be quiet!", "Seasonic", "CableMod", "LG", "NZXT", "Cooler Master",
	"Thermaltake", "HyperX", "SteelSeries", "Razer", "Sony", "Shure", "Blue",
	"Elgato", "Rode", "Audio-Technica", "Anker", "StarTech", "CalDigit",
}

// aliases maps a normalized canonical category to the raw spellings seen in
// stored products. Keys and values are already normalized.
var aliases = map[string][]string{
	"placa-mãe":       {"motherboard", "placa-mãe", "placa mãe", "placa mae", "placa-mae"},
	"fonte":           {"fonte", "fonte de alimentação", "fonte de alimentacao", "power supply", "psu"},
	"cabos":           {"cabos", "cabo", "acessórios", "acessorios", "cables"},
	"ssd":             {"armazenamento", "ssd", "hdd", "storage", "nvme"},
	"refrigeração":    {"refrigeração", "refrigeracao", "cooler", "cooling", "water cooling"},
	"torre":           {"torre", "gabinete", "case", "chassis"},
	"fones de ouvido": {"fones de ouvido", "fone", "fones", "headset", "headphone", "headphones"},
	"microfone":       {"microfone", "mic", "microphone", "microfones"},
	"tapete de mouse": {"tapete de mouse", "tapete", "mousepad", "mouse pad", "mousemat"},
	"suporte":         {"suporte", "stand", "holder", "suportes"},
	"adaptador":       {"adaptador", "adapter", "hub", "dock", "adaptadores"},
}

// Categories returns the canonical categories in display order, starting
// with the AllCategories sentinel.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Brands returns the known brands, starting with the AllBrands sentinel.
func Brands() []string {
	return append([]string(nil), brands...)
}

// Aliases returns the alias set for a canonical category, or nil when the
// category only matches exactly.
func Aliases(canonical string) []string {
	a := aliases[normalize(canonical)]
	if a == nil {
		return nil
	}
	return append([]string(nil), a...)
}

// IsAllCategories reports whether selected disables category filtering.
func IsAllCategories(selected string) bool {
	s := normalize(selected)
	return s == "" || s == "todos" || s == "all"
}

// IsAllBrands reports whether selected disables brand filtering.
func IsAllBrands(selected string) bool {
	s := normalize(selected)
	return s == "" || s == "todas" || s == "all"
}

// Matches reports whether a product's raw category belongs to the selected
// canonical category. Containment is checked in both directions so that
// "SSD NVMe" and "ssd" both land under SSD.
func Matches(raw, selected string) bool {
	r := normalize(raw)
	s := normalize(selected)
	if r == s {
		return true
	}
	// An empty raw category is contained in every alias.
	if r == "" {
		return false
	}
	for _, alias := range aliases[s] {
		if strings.Contains(r, alias) || strings.Contains(alias, r) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
