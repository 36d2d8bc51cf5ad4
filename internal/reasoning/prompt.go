package reasoning

import (
	"fmt"
	"strings"

	"procura/internal/models"
)

// maxUsageLines caps how much consumption history the prompt carries.
const maxUsageLines = 6

// BuildRecommendationPrompt renders the supplier-selection prompt for a
// material. It enumerates each eligible supplier's rating, delivery
// time, fulfillment rate, and price, and instructs the oracle to answer
// with a single JSON object.
func BuildRecommendationPrompt(material models.Material, suppliers []models.Supplier, usage []models.UsageLogEntry) string {
	var b strings.Builder

	category := material.Category
	if category == "" {
		category = "N/A"
	}
	fmt.Fprintf(&b, "As a procurement AI, recommend the best supplier for %q (Category: %s).\n\n", material.Name, category)

	b.WriteString("Available suppliers:\n")
	for _, s := range suppliers {
		price := "N/A"
		if s.PricePerUnit != nil {
			price = fmt.Sprintf("$%.2f", *s.PricePerUnit)
		}
		fmt.Fprintf(&b, "- %s: Rating %.1f/5, Delivery %d days, Fulfillment %.0f%%, Price %s\n",
			s.Name, s.Rating, s.DeliveryTime, s.FulfillmentRate, price)
	}

	avgUsage := "N/A"
	if material.AvgMonthlyUsage != nil {
		avgUsage = fmt.Sprintf("%.1f", *material.AvgMonthlyUsage)
	}
	fmt.Fprintf(&b, "\nMaterial details:\n- Current stock: %.0f\n- Reorder level: %.0f\n- Average monthly usage: %s\n",
		material.StockQty, material.ReorderLevel, avgUsage)

	if lines := usageLines(material.ID, usage); len(lines) > 0 {
		b.WriteString("\nRecent usage:\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	b.WriteString("\nConsider: delivery time, fulfillment rate, price, rating, and reliability.\n\n")
	b.WriteString("Respond in JSON format:\n")
	b.WriteString(`{
  "supplier": "supplier_name",
  "reasoning": "detailed_explanation_under_100_words",
  "riskLevel": "low|medium|high"
}`)

	return b.String()
}

func usageLines(materialID string, usage []models.UsageLogEntry) []string {
	lines := make([]string, 0, maxUsageLines)
	for i := len(usage) - 1; i >= 0 && len(lines) < maxUsageLines; i-- {
		entry := usage[i]
		if entry.MaterialID != materialID {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %.0f used", entry.DateUsed, entry.Quantity))
	}
	return lines
}
