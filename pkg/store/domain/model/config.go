package model

type Layout string

const (
	GridLayout Layout = "grid"
	ListLayout Layout = "list"
)

const (
	ColorCharcoal = "#1C1C1C"
	ColorBurgundy = "#6B1E2E"
	ColorForest   = "#1F3D2B"
	ColorGold     = "#B08D57"
	ColorNavy     = "#1B2A41"
)

// ColorPresets are the brand colours the customizer offers.
var ColorPresets = []string{ColorCharcoal, ColorBurgundy, ColorForest, ColorGold, ColorNavy}

// StoreConfig is the single storefront branding record.
type StoreConfig struct {
	StoreName       string `json:"storeName"`
	PrimaryColor    string `json:"primaryColor"`
	Layout          Layout `json:"layout"`
	HeroImage       string `json:"heroImage"`
	HeroHeadline    string `json:"heroHeadline"`
	HeroSubheadline string `json:"heroSubheadline"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
}

type ConfigPatch struct {
	StoreName       *string `json:"storeName,omitempty"`
	PrimaryColor    *string `json:"primaryColor,omitempty"`
	Layout          *Layout `json:"layout,omitempty"`
	HeroImage       *string `json:"heroImage,omitempty"`
	HeroHeadline    *string `json:"heroHeadline,omitempty"`
	HeroSubheadline *string `json:"heroSubheadline,omitempty"`
	ContactEmail    *string `json:"contactEmail,omitempty"`
	ContactPhone    *string `json:"contactPhone,omitempty"`
}

func (p ConfigPatch) Apply(config *StoreConfig) {
	if p.StoreName != nil {
		config.StoreName = *p.StoreName
	}
	if p.PrimaryColor != nil {
		config.PrimaryColor = *p.PrimaryColor
	}
	if p.Layout != nil {
		config.Layout = *p.Layout
	}
	if p.HeroImage != nil {
		config.HeroImage = *p.HeroImage
	}
	if p.HeroHeadline != nil {
		config.HeroHeadline = *p.HeroHeadline
	}
	if p.HeroSubheadline != nil {
		config.HeroSubheadline = *p.HeroSubheadline
	}
	if p.ContactEmail != nil {
		config.ContactEmail = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		config.ContactPhone = *p.ContactPhone
	}
}
