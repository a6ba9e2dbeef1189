package product

import (
	"strings"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/shopify"
)

// enrich merges a Shopify product with its attribute row, which may be absent.
func enrich(p shopify.Product, attrs *models.ProductAttributes) ProductView {
	view := ProductView{
		ID:            p.ID,
		Title:         p.Title,
		Handle:        p.Handle,
		BodyHTML:      p.BodyHTML,
		Vendor:        firstNonEmpty(p.Vendor, defaultVendor),
		ProductType:   firstNonEmpty(p.ProductType, defaultProductType),
		Tags:          splitTags(p.Tags),
		Variants:      make([]VariantView, 0, len(p.Variants)),
		Images:        p.Images,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		NutritionInfo: models.DefaultNutrition(),
	}
	if view.Images == nil {
		view.Images = []shopify.Image{}
	}
	for _, v := range p.Variants {
		view.Variants = append(view.Variants, VariantView{
			ID:                v.ID,
			ProductID:         v.ProductID,
			Title:             v.Title,
			Price:             v.Price,
			CompareAtPrice:    v.CompareAtPrice,
			SKU:               v.SKU,
			Option1:           v.Option1,
			Option2:           v.Option2,
			InventoryQuantity: v.InventoryQuantity,
			Weight:            v.Weight,
			WeightUnit:        firstNonEmpty(v.WeightUnit, "oz"),
		})
	}

	view.PackSizes = packSizesFromVariants(p.Variants)
	if attrs == nil {
		return view
	}
	view.Flavor = attrs.Flavor
	view.IsBestseller = attrs.IsBestseller
	view.IsAwardWinning = attrs.IsAwardWinning
	if len(attrs.PackSizes) > 0 {
		view.PackSizes = append([]string{}, attrs.PackSizes...)
	}
	if attrs.Nutrition != nil {
		view.NutritionInfo = *attrs.Nutrition
	}
	return view
}

// packSizesFromVariants returns the distinct option1 values in variant order.
func packSizesFromVariants(variants []shopify.Variant) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, v := range variants {
		if v.Option1 == "" {
			continue
		}
		if _, ok := seen[v.Option1]; ok {
			continue
		}
		seen[v.Option1] = struct{}{}
		out = append(out, v.Option1)
	}
	return out
}

func (v ProductView) matches(params ListParams) bool {
	if flavor := strings.TrimSpace(params.Flavor); flavor != "" {
		if v.Flavor == nil || !strings.EqualFold(*v.Flavor, flavor) {
			return false
		}
	}
	if size := strings.TrimSpace(params.PackSize); size != "" {
		found := false
		for _, candidate := range v.PackSizes {
			if candidate == size {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (v ProductView) featured() bool {
	return v.IsBestseller || v.IsAwardWinning
}

func splitTags(raw string) []string {
	out := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
