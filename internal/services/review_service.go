package services

import (
	"context"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/validate"
)

const maxReviewLen = 1000

type ReviewService struct {
	API *api.Client
}

func NewReviewService(c *api.Client) *ReviewService { return &ReviewService{API: c} }

func (s *ReviewService) List(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.API.Reviews(ctx, productID)
}

// Submit posts a review; moderation and duplicate checks are the backend's.
func (s *ReviewService) Submit(ctx context.Context, sess *session.Session, productID, rating, comment string) error {
	tok, err := userToken(sess)
	if err != nil {
		return err
	}
	fe := validate.Errors{}
	stars, ok := validate.Rating(rating)
	if !ok {
		fe.Add("rating", "Choose a rating from 1 to 5")
	}
	comment, ok = validate.Text(comment, maxReviewLen)
	if !ok {
		fe.Add("comment", "Write a short review")
	}
	if err := formErr(fe); err != nil {
		return err
	}
	return s.API.CreateReview(ctx, tok, productID, api.NewReview{Rating: stars, Comment: comment})
}
