package feed

import (
	"strings"

	"blmfeed/internal/property"
)

var transTypes = map[string]string{
	"1": "Resale",
	"2": "Lettings",
}

var rentFrequencies = map[string]string{
	"0": "Weekly",
	"1": "Monthly",
	"2": "Quarterly",
	"3": "Annual",
	"5": "Per person per week",
}

// ToText renders a record as a short plain-text listing.
func ToText(p *property.Record) string {
	var sb strings.Builder

	if p.DisplayAddress() != "" {
		sb.WriteString(p.DisplayAddress() + "\n\n")
	}

	if p.Description() != "" {
		desc, err := PlainText(p.Description())
		if err != nil {
			desc = p.Description()
		}
		sb.WriteString(desc + "\n\n")
	} else if p.Summary() != "" {
		sb.WriteString(p.Summary() + "\n\n")
	}

	sb.WriteString("--- Details ---\n")
	if p.AgentRef() != "" {
		sb.WriteString("Ref: " + p.AgentRef() + "\n")
	}
	if t, ok := transTypes[p.TransTypeID()]; ok {
		sb.WriteString("Type: " + t + "\n")
	}
	if p.Price() != "" {
		line := "Price: " + p.Price()
		if f, ok := rentFrequencies[p.LetRentFrequency()]; ok && p.TransTypeID() == "2" {
			line += " (" + f + ")"
		}
		sb.WriteString(line + "\n")
	}
	if p.Bedrooms() != "" {
		sb.WriteString("Bedrooms: " + p.Bedrooms() + "\n")
	}

	if features := p.Features(); len(features) > 0 {
		sb.WriteString("\nFeatures:\n")
		for _, f := range features {
			sb.WriteString("- " + f + "\n")
		}
	}
	if images := p.Images(); len(images) > 0 {
		sb.WriteString("\nMain image: " + images[0] + "\n")
	}

	return sb.String()
}
