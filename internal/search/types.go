package search

import (
	"bytes"
	"strconv"
)

// Rupees is a price parsed from the aggregator's loosely typed price fields,
// which arrive as numbers, numeric strings, empty strings, or null.
// Anything unparseable decodes to 0.
type Rupees float64

func (r *Rupees) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if data[0] == '"' {
		data = bytes.Trim(data, `"`)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*r = 0
		return nil
	}
	*r = Rupees(v)
	return nil
}

// PlatformRef is the nested platform object on a raw product.
type PlatformRef struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// RawProduct is one product record as returned by the aggregator API.
// It exists only within one search call's response processing; the classifier
// and selector convert it into typed internal data before anything else
// touches it.
type RawProduct struct {
	Name      string      `json:"name"`
	Brand     string      `json:"brand"`
	OfferPrice Rupees     `json:"offer_price"`
	MRP       Rupees      `json:"mrp"`
	Quantity  string      `json:"quantity"`
	Image     string      `json:"image"`
	Images    []string    `json:"images"`
	Deeplink  string      `json:"deeplink"`
	URL       string      `json:"url"`
	Rating    float64     `json:"rating"`
	Available *bool       `json:"available"`
	Platform  PlatformRef `json:"platform"`
}

// productGroup is one group in the aggregator's groupsearch response.
type productGroup struct {
	Data []RawProduct `json:"data"`
}

// IsAvailable reports whether the product can be ordered. The API omits the
// flag for most products, which means available.
func (p RawProduct) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// BestPrice returns the offer price when set, falling back to MRP, then 0.
func (p RawProduct) BestPrice() float64 {
	if p.OfferPrice > 0 {
		return float64(p.OfferPrice)
	}
	return float64(p.MRP)
}

// ImageURL returns the first usable product image URL.
func (p RawProduct) ImageURL() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Link returns the deeplink when set, falling back to the web URL.
func (p RawProduct) Link() string {
	if p.Deeplink != "" {
		return p.Deeplink
	}
	return p.URL
}
