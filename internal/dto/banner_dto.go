package dto

// UpdateBannerRequest patches the banner singleton; only fields present
// in the body are applied.
type UpdateBannerRequest struct {
	Enabled  *bool   `json:"enabled"`
	Text     *string `json:"text"`
	Variant  *string `json:"variant"`
	LinkText *string `json:"link_text"`
	LinkHref *string `json:"link_href"`
}

type BannerResponse struct {
	ID        string  `json:"id"`
	Enabled   bool    `json:"enabled"`
	Text      string  `json:"text"`
	Variant   string  `json:"variant"`
	LinkText  string  `json:"link_text"`
	LinkHref  string  `json:"link_href"`
	UpdatedAt *string `json:"updated_at"`
}
