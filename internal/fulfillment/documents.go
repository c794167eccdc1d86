package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"beatstore/internal/entitlement"
)

const fallbackTerms = "Standard licensing terms apply."

func renderSummary(storeName string, ent *entitlement.Entitlement, downloadURLs []string) []byte {
	terms := strings.TrimSpace(ent.License.UsageTerms)
	if terms == "" {
		terms = fallbackTerms
	}

	categories := make([]string, 0, 3)
	for _, c := range ent.Categories() {
		categories = append(categories, string(c))
	}

	streamLimit := "Unlimited"
	if ent.License.StreamLimit >= 0 {
		streamLimit = fmt.Sprintf("%d", ent.License.StreamLimit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n\n", storeName, ent.License.Name)
	fmt.Fprintf(&b, "Beat Title: %s\n", ent.Product.Title)
	fmt.Fprintf(&b, "Buyer Email: %s\n", ent.Buyer)
	fmt.Fprintf(&b, "License ID: %s\n\n", ent.License.ID)
	fmt.Fprintf(&b, "Usage Terms:\n%s\n\n", terms)
	fmt.Fprintf(&b, "Files Included: %s\n", strings.Join(categories, ", "))
	fmt.Fprintf(&b, "Stream Limit: %s\n\n", streamLimit)
	fmt.Fprintf(&b, "Download Links:\n%s\n", strings.Join(downloadURLs, "\n"))
	return []byte(b.String())
}

func renderAgreement(ent *entitlement.Entitlement, now time.Time) []byte {
	if ent.Template == nil {
		return []byte("No contract template available.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "License Contract - %s\n", ent.Template.Name)
	fmt.Fprintf(&b, "Beat: %s\n", ent.Product.Title)
	fmt.Fprintf(&b, "License: %s\n", ent.License.Name)
	fmt.Fprintf(&b, "Date: %s\n\n", now.UTC().Format(time.RFC3339))
	b.WriteString(ent.Template.Body)
	b.WriteString("\n")
	return []byte(b.String())
}

func subjectLine(ent *entitlement.Entitlement) string {
	return fmt.Sprintf("Your Beat Delivery - %s (%s)", ent.Product.Title, ent.License.Name)
}

func bodyText(ent *entitlement.Entitlement, delivered, downloadURLs []string) string {
	categories := make([]string, 0, 3)
	for _, c := range ent.Categories() {
		categories = append(categories, string(c))
	}

	var b strings.Builder
	b.WriteString("Thank you for your purchase!\n\n")
	fmt.Fprintf(&b, "Beat: %s\n", ent.Product.Title)
	fmt.Fprintf(&b, "License: %s\n", ent.License.Name)
	fmt.Fprintf(&b, "Included: %s\n\n", strings.Join(categories, ", "))
	b.WriteString("Files Attached (or download links if large):\n")
	for _, name := range delivered {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString("\nContract included as contract.txt.\nIf links are needed directly:\n")
	b.WriteString(strings.Join(downloadURLs, "\n"))
	b.WriteString("\n\nSupport: Reply to this email.\n")
	return b.String()
}
