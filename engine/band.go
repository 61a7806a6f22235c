package engine

import "github.com/pbclarke/tippingapi/models"

// Band maps a numeric victory margin to its coarse band label.
// Margins below 1 have no band and return "". The same classifier
// validates pick margin indicators (1, 13) and classifies result margins.
func Band(margin int) string {
	switch {
	case margin >= 13:
		return models.BandBlowout
	case margin >= 1:
		return models.BandClose
	}
	return ""
}

// BandOf classifies a nullable margin, returning nil when no band applies.
func BandOf(margin *int) *string {
	if margin == nil {
		return nil
	}
	if b := Band(*margin); b != "" {
		return &b
	}
	return nil
}
