package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"paddyseed/internal/domain"
	"paddyseed/internal/repos"
	"paddyseed/internal/validate"
)

type ReviewInput struct {
	ProductID string `json:"product"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Products *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, products *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Products: products}
}

// Submit persists a review and refreshes the product's rating aggregate.
// A user gets one review per product.
func (s *ReviewService) Submit(userID string, in ReviewInput) (*domain.Review, error) {
	if _, ok := validate.ID(in.ProductID); !ok {
		return nil, domain.Invalid("product", "valid product ID is required")
	}
	if !validate.Rating(in.Rating) {
		return nil, domain.Invalid("rating", "rating must be between 1 and 5")
	}
	title, ok := validate.Title(in.Title)
	if !ok {
		return nil, domain.Invalid("title", "title must be between 5 and 100 characters")
	}
	comment, ok := validate.Comment(in.Comment)
	if !ok {
		return nil, domain.Invalid("comment", "comment must be between 10 and 500 characters")
	}

	if _, err := s.Products.Get(in.ProductID); err != nil {
		return nil, err
	}
	exists, err := s.Reviews.Exists(userID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already reviewed this product", domain.ErrConflict)
	}

	rv := &domain.Review{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProductID:  in.ProductID,
		Rating:     in.Rating,
		Title:      title,
		Comment:    comment,
		IsApproved: true,
	}
	if err := s.Reviews.Create(rv); err != nil {
		return nil, err
	}
	if err := s.refreshRating(in.ProductID); err != nil {
		return nil, err
	}
	return s.Reviews.Get(rv.ID)
}

// Update lets the owner (or an admin) edit rating/title/comment, then
// recomputes the aggregate.
func (s *ReviewService) Update(reviewID string, requester *domain.User, in ReviewInput) (*domain.Review, error) {
	rv, err := s.Reviews.Get(reviewID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(rv.UserID) {
		return nil, domain.ErrForbidden
	}
	rating := rv.Rating
	if in.Rating != 0 {
		if !validate.Rating(in.Rating) {
			return nil, domain.Invalid("rating", "rating must be between 1 and 5")
		}
		rating = in.Rating
	}
	title := rv.Title
	if in.Title != "" {
		if title, err = validatedTitle(in.Title); err != nil {
			return nil, err
		}
	}
	comment := rv.Comment
	if in.Comment != "" {
		if comment, err = validatedComment(in.Comment); err != nil {
			return nil, err
		}
	}
	if err := s.Reviews.Update(reviewID, rating, title, comment); err != nil {
		return nil, err
	}
	if err := s.refreshRating(rv.ProductID); err != nil {
		return nil, err
	}
	return s.Reviews.Get(reviewID)
}

func (s *ReviewService) Delete(reviewID string, requester *domain.User) error {
	rv, err := s.Reviews.Get(reviewID)
	if err != nil {
		return err
	}
	if !requester.CanAccess(rv.UserID) {
		return domain.ErrForbidden
	}
	if err := s.Reviews.Delete(reviewID); err != nil {
		return err
	}
	return s.refreshRating(rv.ProductID)
}

// Moderate flips approval and recomputes, since only approved reviews count
// toward the product rating.
func (s *ReviewService) Moderate(reviewID, adminID string, approved bool, response string) (*domain.Review, error) {
	rv, err := s.Reviews.Get(reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Moderate(reviewID, approved, response, adminID); err != nil {
		return nil, err
	}
	if err := s.refreshRating(rv.ProductID); err != nil {
		return nil, err
	}
	return s.Reviews.Get(reviewID)
}

func (s *ReviewService) ListByProduct(productID string, limit, offset int) ([]domain.Review, error) {
	return s.Reviews.ListByProduct(productID, true, limit, offset)
}

func (s *ReviewService) ListAll(limit, offset int) ([]domain.Review, error) {
	return s.Reviews.ListAll(limit, offset)
}

// refreshRating recomputes the mean of approved ratings, rounded to one
// decimal, and writes it onto the product (0/0 when none remain).
func (s *ReviewService) refreshRating(productID string) error {
	avg, count, err := s.Reviews.AverageForProduct(productID)
	if err != nil {
		return err
	}
	rating := 0.0
	if count > 0 {
		rating = math.Round(avg*10) / 10
	}
	return s.Products.SetRating(productID, rating, count)
}

func validatedTitle(s string) (string, error) {
	t, ok := validate.Title(s)
	if !ok {
		return "", domain.Invalid("title", "title must be between 5 and 100 characters")
	}
	return t, nil
}

func validatedComment(s string) (string, error) {
	c, ok := validate.Comment(s)
	if !ok {
		return "", domain.Invalid("comment", "comment must be between 10 and 500 characters")
	}
	return c, nil
}
