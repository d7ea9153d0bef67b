package dto

type SubscribeRequest struct {
	Phone   string   `json:"phone"`
	Zones   []string `json:"zones"`
	Consent bool     `json:"consent"`
}

type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
