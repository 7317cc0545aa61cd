package model

// Response is the body of every non-200 API response.
type Response struct {
	Message string `json:"message"`
}
