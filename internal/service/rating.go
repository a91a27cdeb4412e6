package service

import "github.com/Skotchmaster/marketplace/internal/models"

// AverageRating is the arithmetic mean of the review ratings, 0 for none.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
