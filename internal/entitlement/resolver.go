package entitlement

import (
	"context"
	"log/slog"
	"strings"

	"beatstore/internal/logging"
	"beatstore/internal/media"
	"beatstore/internal/services"
	"beatstore/internal/store"
)

// Item pairs a granted file category with the media reference backing it.
type Item struct {
	Category media.Category
	MediaRef string
}

// Entitlement is the resolved grant for one fulfillment event. Template may
// be nil; the notification stage substitutes a placeholder document.
type Entitlement struct {
	Product  *store.Product
	License  *store.License
	Template *store.Template
	Buyer    string
	Items    []Item
}

// Categories returns the granted category list in grant order, one entry
// per category regardless of how many items it expanded to.
func (e *Entitlement) Categories() []media.Category {
	var categories []media.Category
	seen := map[media.Category]bool{}
	for _, item := range e.Items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

// Resolver turns a product/license pair into a concrete entitlement.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// NewResolver constructs a Resolver backed by the catalog store.
func NewResolver(st *store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{store: st, logger: logging.WithComponent(logger, "entitlement")}
}

// Resolve loads the catalog records for the event and maps the license's
// granted categories onto the product's media references. Unknown ids and a
// missing buyer email make the run a no-op, signalled with not-found and
// validation markers rather than hard failures.
func (r *Resolver) Resolve(ctx context.Context, productID, licenseID, buyerEmail string) (*Entitlement, error) {
	buyer := strings.TrimSpace(buyerEmail)
	if buyer == "" {
		return nil, services.Wrap(services.ErrValidation, "entitlement", "resolve", "buyer email missing", nil)
	}

	product, err := r.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "entitlement", "load product", productID, err)
	}
	if product == nil {
		return nil, services.Wrap(services.ErrNotFound, "entitlement", "resolve", "unknown product "+productID, nil)
	}

	license, err := r.store.GetLicense(ctx, licenseID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "entitlement", "load license", licenseID, err)
	}
	if license == nil {
		return nil, services.Wrap(services.ErrNotFound, "entitlement", "resolve", "unknown license "+licenseID, nil)
	}

	template, err := r.store.GetTemplate(ctx, licenseID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "entitlement", "load template", licenseID, err)
	}

	granted := license.FilesIncluded
	if len(granted) == 0 {
		// Older license records predate the explicit inclusion field.
		granted = media.DefaultCategories(license.ID)
		r.logger.Debug("license grants resolved from tier defaults",
			logging.String("license_id", license.ID))
	}

	entitlement := &Entitlement{
		Product:  product,
		License:  license,
		Template: template,
		Buyer:    buyer,
	}
	for _, category := range granted {
		entitlement.Items = append(entitlement.Items, expand(product, category)...)
	}

	r.logger.Info("entitlement resolved",
		logging.String("product_id", product.ID),
		logging.String("license_id", license.ID),
		logging.Int("items", len(entitlement.Items)))
	return entitlement, nil
}

// expand maps one granted category onto the product's media references.
// Categories with no backing reference expand to nothing; the product simply
// has no file of that class to deliver.
func expand(product *store.Product, category media.Category) []Item {
	switch category {
	case media.CategoryMP3:
		if product.MP3Ref != "" {
			return []Item{{Category: media.CategoryMP3, MediaRef: product.MP3Ref}}
		}
	case media.CategoryWAV:
		if product.WAVRef != "" {
			return []Item{{Category: media.CategoryWAV, MediaRef: product.WAVRef}}
		}
	case media.CategoryStem:
		items := make([]Item, 0, len(product.StemRefs))
		for _, ref := range product.StemRefs {
			items = append(items, Item{Category: media.CategoryStem, MediaRef: ref})
		}
		return items
	}
	return nil
}
