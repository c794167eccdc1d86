package fulfillment

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"beatstore/internal/entitlement"
	"beatstore/internal/media"
	"beatstore/internal/store"
)

func premiumEntitlement() *entitlement.Entitlement {
	return &entitlement.Entitlement{
		Product: &store.Product{ID: "trap_wave_001", Title: "Trap Wave 001"},
		License: &store.License{
			ID:          "premium",
			Name:        "Premium Lease (MP3 + WAV)",
			Price:       59.99,
			StreamLimit: 500000,
			UsageTerms:  "Non-exclusive lease with WAV master.",
		},
		Template: &store.Template{
			ID:   "premium",
			Name: "Premium Lease Agreement",
			Body: "This non-exclusive agreement grants the licensee the right to use the composition in one (1) commercial release.",
		},
		Buyer: "buyer@example.com",
		Items: []entitlement.Item{
			{Category: media.CategoryMP3, MediaRef: "trap_wave_001/trap_wave_001.mp3"},
			{Category: media.CategoryWAV, MediaRef: "trap_wave_001/trap_wave_001.wav"},
		},
	}
}

func TestRenderSummaryGolden(t *testing.T) {
	ent := premiumEntitlement()
	urls := []string{
		"http://localhost:4242/media/trap_wave_001/trap_wave_001.mp3",
		"http://localhost:4242/media/trap_wave_001/trap_wave_001.wav",
	}

	g := goldie.New(t)
	g.Assert(t, "license_summary", renderSummary("Test Beats", ent, urls))
}

func TestRenderSummaryUnlimitedAndFallbackTerms(t *testing.T) {
	ent := premiumEntitlement()
	ent.License.StreamLimit = store.UnlimitedStreams
	ent.License.UsageTerms = "  "

	g := goldie.New(t)
	g.Assert(t, "license_summary_unlimited", renderSummary("Test Beats", ent, nil))
}

func TestRenderAgreementGolden(t *testing.T) {
	ent := premiumEntitlement()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	g := goldie.New(t)
	g.Assert(t, "agreement", renderAgreement(ent, now))
}

func TestRenderAgreementWithoutTemplate(t *testing.T) {
	ent := premiumEntitlement()
	ent.Template = nil

	got := renderAgreement(ent, time.Now())
	if string(got) != "No contract template available." {
		t.Fatalf("unexpected placeholder: %q", got)
	}
}

func TestBodyTextGolden(t *testing.T) {
	ent := premiumEntitlement()
	delivered := []string{"license.txt", "contract.txt", "trap_wave_001.mp3", "trap_wave_001.wav"}
	urls := []string{
		"http://localhost:4242/media/trap_wave_001/trap_wave_001.mp3",
		"http://localhost:4242/media/trap_wave_001/trap_wave_001.wav",
	}

	g := goldie.New(t)
	g.Assert(t, "mail_body", []byte(bodyText(ent, delivered, urls)))
}

func TestSubjectLine(t *testing.T) {
	got := subjectLine(premiumEntitlement())
	want := "Your Beat Delivery - Trap Wave 001 (Premium Lease (MP3 + WAV))"
	if got != want {
		t.Fatalf("subject = %q, want %q", got, want)
	}
}
