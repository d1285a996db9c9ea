package purchase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Catalog is the immutable set of credit packages and the web price table.
type Catalog struct {
	packages []Package
	bySKU    map[string]Package
	webPrice map[string]int
}

func DefaultPackages() []Package {
	return []Package{
		{ID: "pkg_1", SKU: "futbol_analiz_10_credits", Name: "Başlangıç", Credits: 10, PriceMinor: 14999, PriceDisplay: "149,99 TL", WebPrice: "150"},
		{ID: "pkg_2", SKU: "futbol_analiz_25_credits", Name: "Standart", Credits: 25, PriceMinor: 29999, PriceDisplay: "299,99 TL", WebPrice: "300", Popular: true},
		{ID: "pkg_3", SKU: "futbol_analiz_60_credits", Name: "Profesyonel", Credits: 60, PriceMinor: 59999, PriceDisplay: "599,99 TL", WebPrice: "600"},
		{ID: "pkg_4", SKU: "futbol_analiz_150_credits", Name: "Expert", Credits: 150, PriceMinor: 119999, PriceDisplay: "1.199,99 TL", WebPrice: "1200"},
	}
}

// NewCatalog builds a catalog. webPrices maps a normalised web amount
// ("150") to credits; nil derives it from the packages.
func NewCatalog(packages []Package, webPrices map[string]int) (*Catalog, error) {
	c := &Catalog{
		bySKU:    make(map[string]Package, len(packages)),
		webPrice: make(map[string]int),
	}
	for _, pkg := range packages {
		if strings.TrimSpace(pkg.SKU) == "" {
			return nil, fmt.Errorf("package %s sku is required", pkg.ID)
		}
		if pkg.Credits <= 0 {
			return nil, fmt.Errorf("package %s credits must be > 0", pkg.SKU)
		}
		if _, exists := c.bySKU[pkg.SKU]; exists {
			return nil, fmt.Errorf("duplicate package sku %s", pkg.SKU)
		}
		c.bySKU[pkg.SKU] = pkg
		c.packages = append(c.packages, pkg)
		if webPrices == nil && pkg.WebPrice != "" {
			c.webPrice[NormalizeAmount(pkg.WebPrice)] = pkg.Credits
		}
	}
	for amount, credits := range webPrices {
		if credits <= 0 {
			return nil, fmt.Errorf("web price %s credits must be > 0", amount)
		}
		c.webPrice[NormalizeAmount(amount)] = credits
	}

	return c, nil
}

func (c *Catalog) Packages() []Package {
	out := make([]Package, len(c.packages))
	copy(out, c.packages)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Credits < out[j].Credits })
	return out
}

func (c *Catalog) BySKU(sku string) (Package, bool) {
	pkg, ok := c.bySKU[strings.TrimSpace(sku)]
	return pkg, ok
}

// CreditsForWebAmount resolves the credits bought by a checkout total.
func (c *Catalog) CreditsForWebAmount(amount string) (int, bool) {
	credits, ok := c.webPrice[NormalizeAmount(amount)]
	return credits, ok
}

// NormalizeAmount reduces "150", "150.00" and "150,00" to "150". Amounts
// with a non-zero fraction keep it with a dot separator.
func NormalizeAmount(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.ReplaceAll(value, ",", ".")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	if parsed == float64(int64(parsed)) {
		return strconv.FormatInt(int64(parsed), 10)
	}
	return strconv.FormatFloat(parsed, 'f', 2, 64)
}

// AmountToMinor converts a decimal amount to minor units, 0 when unparsable.
func AmountToMinor(raw string) int64 {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return int64(parsed*100 + 0.5)
}
