package common

const (
	// MaxRequestBody limits JSON request bodies for session endpoints.
	MaxRequestBody = 1 << 20
	// MinRating / MaxRating bound the rating filter accepted from clients.
	MinRating = 1
	MaxRating = 5
)
