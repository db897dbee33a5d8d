package models

// ShopTypePrimary marks the root shop whose discounts are usable from every
// other shop.
const ShopTypePrimary = "primary"

type Shop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ShopType string `json:"shopType"`
}

// ShopLocationSettings carries the coordinates used to resolve a shop's
// county. Either coordinate may be absent, in which case the county is
// unresolvable.
type ShopLocationSettings struct {
	ShopID    string   `json:"shopId"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
