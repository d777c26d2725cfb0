// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// QuoteResponse represents the JSON response from the Twelve Data quote endpoint.
// Errors are reported in-band with Status "error" and an HTTP-like Code.
type QuoteResponse struct {
	Status   string `json:"status,omitempty"`
	Code     int    `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Close    string `json:"close"`
}
