package store

import (
	"context"
	"fmt"

	"beatstore/internal/media"
)

// Seed populates an empty store with the starter catalog: three beats,
// the four standard license tiers, matching agreement templates, and a
// launch coupon. Existing rows are left untouched.
func (s *Store) Seed(ctx context.Context) error {
	products, err := s.ListProducts(ctx, false)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	for _, product := range seedProducts() {
		if err := s.SaveProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %s: %w", product.ID, err)
		}
	}
	for _, license := range seedLicenses() {
		if err := s.SaveLicense(ctx, license); err != nil {
			return fmt.Errorf("seed license %s: %w", license.ID, err)
		}
	}
	for _, template := range seedTemplates() {
		if err := s.SaveTemplate(ctx, template); err != nil {
			return fmt.Errorf("seed template %s: %w", template.ID, err)
		}
	}
	for _, coupon := range seedCoupons() {
		if err := s.SaveCoupon(ctx, coupon); err != nil {
			return fmt.Errorf("seed coupon %s: %w", coupon.Code, err)
		}
	}
	return nil
}

func seedProducts() []*Product {
	return []*Product{
		{
			ID:       "trap_wave_001",
			Title:    "Trap Wave 001",
			BPM:      140,
			Key:      "F minor",
			Mood:     "dark",
			Tags:     []string{"trap", "808"},
			MP3Ref:   "trap_wave_001/trap_wave_001.mp3",
			WAVRef:   "trap_wave_001/trap_wave_001.wav",
			StemRefs: []string{"trap_wave_001/stems/drums.wav", "trap_wave_001/stems/melody.wav"},
			CoverRef: "trap_wave_001/cover.jpg",
		},
		{
			ID:       "rnb_vibes_002",
			Title:    "R&B Vibes 002",
			BPM:      92,
			Key:      "C major",
			Mood:     "smooth",
			Tags:     []string{"rnb", "soul"},
			MP3Ref:   "rnb_vibes_002/rnb_vibes_002.mp3",
			WAVRef:   "rnb_vibes_002/rnb_vibes_002.wav",
			CoverRef: "rnb_vibes_002/cover.jpg",
		},
		{
			ID:       "club_banger_003",
			Title:    "Club Banger 003",
			BPM:      128,
			Key:      "A minor",
			Mood:     "energetic",
			Tags:     []string{"club", "edm"},
			MP3Ref:   "club_banger_003/club_banger_003.mp3",
			WAVRef:   "club_banger_003/club_banger_003.wav",
			StemRefs: []string{"club_banger_003/stems/kick.wav", "club_banger_003/stems/synth.wav"},
			CoverRef: "club_banger_003/cover.jpg",
		},
	}
}

func seedLicenses() []*License {
	return []*License{
		{
			ID:            "basic",
			Name:          "Basic Lease (MP3)",
			Price:         29.99,
			FilesIncluded: []media.Category{media.CategoryMP3},
			StreamLimit:   100000,
			UsageTerms:    "Non-exclusive lease for one commercial release. Producer retains full ownership.",
			Features:      []string{"MP3 download", "100K streams", "Non-exclusive"},
		},
		{
			ID:            "premium",
			Name:          "Premium Lease (MP3 + WAV)",
			Price:         59.99,
			FilesIncluded: []media.Category{media.CategoryMP3, media.CategoryWAV},
			StreamLimit:   500000,
			UsageTerms:    "Non-exclusive lease with WAV master for one commercial release.",
			Features:      []string{"MP3 + WAV download", "500K streams", "Non-exclusive"},
		},
		{
			ID:            "unlimited",
			Name:          "Unlimited Lease",
			Price:         129.99,
			FilesIncluded: []media.Category{media.CategoryMP3, media.CategoryWAV, media.CategoryStem},
			StreamLimit:   UnlimitedStreams,
			UsageTerms:    "Non-exclusive lease with unlimited streams and full trackout stems.",
			Features:      []string{"MP3 + WAV + stems", "Unlimited streams", "Non-exclusive"},
		},
		{
			ID:            "exclusive",
			Name:          "Exclusive Rights",
			Price:         499.99,
			FilesIncluded: []media.Category{media.CategoryMP3, media.CategoryWAV, media.CategoryStem},
			StreamLimit:   UnlimitedStreams,
			UsageTerms:    "Exclusive rights transfer. The beat is removed from sale after purchase.",
			Features:      []string{"All files", "Unlimited streams", "Exclusive ownership"},
		},
	}
}

func seedTemplates() []*Template {
	return []*Template{
		{
			ID:   "basic",
			Name: "Basic Lease Agreement",
			Body: "This non-exclusive agreement grants the licensee the right to use the composition in one (1) commercial release, up to the stream ceiling stated on the license summary. The producer retains all ownership and publishing rights.",
		},
		{
			ID:   "premium",
			Name: "Premium Lease Agreement",
			Body: "This non-exclusive agreement grants the licensee the right to use the composition and its WAV master in one (1) commercial release, up to the stream ceiling stated on the license summary. The producer retains all ownership and publishing rights.",
		},
		{
			ID:   "unlimited",
			Name: "Unlimited Lease Agreement",
			Body: "This non-exclusive agreement grants the licensee unlimited commercial use of the composition, including trackout stems. The producer retains ownership; credit is required in all releases.",
		},
		{
			ID:   "exclusive",
			Name: "Exclusive Rights Agreement",
			Body: "This agreement transfers exclusive usage rights of the composition to the licensee. Upon execution the composition is withdrawn from sale. The producer retains writer's share of publishing.",
		},
	}
}

func seedCoupons() []*Coupon {
	return []*Coupon{
		{
			ID:       "coupon_launch10",
			Code:     "LAUNCH10",
			Kind:     CouponPercentage,
			Value:    10,
			UseLimit: 100,
			Active:   true,
		},
		{
			ID:       "coupon_fivebucks",
			Code:     "FIVEBUCKS",
			Kind:     CouponFixed,
			Value:    5,
			UseLimit: 0,
			Active:   true,
		},
	}
}
