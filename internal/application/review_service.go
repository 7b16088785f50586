package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	bookingDomain "github.com/pawfect-care/service-marketplace/internal/domain/booking"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	reviewDomain "github.com/pawfect-care/service-marketplace/internal/domain/review"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
)

// CreateReviewRequest is the request DTO for reviewing a settled booking.
type CreateReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required"`
	Comment   string    `json:"comment"`
}

// ReviewDTO is the API response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ClientID   uuid.UUID `json:"client_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewService implements the review use cases.
type ReviewService struct {
	repo        reviewDomain.ReviewRepository
	bookingRepo bookingDomain.BookingRepository
	clock       clock.Clock
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo reviewDomain.ReviewRepository, bookingRepo bookingDomain.BookingRepository, clk clock.Clock, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, bookingRepo: bookingRepo, clock: clk, logger: logger}
}

// CreateReview records the client's review of a PAID booking, at most once.
func (s *ReviewService) CreateReview(ctx context.Context, actor identity.Actor, req CreateReviewRequest) (*ReviewDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if actor.ClientID == nil || *actor.ClientID != bk.ClientID() {
		return nil, domain.NewForbiddenError("booking does not belong to this client")
	}
	if bk.Status() != bookingDomain.StatusPaid {
		return nil, domain.NewInvalidStateError(string(bk.Status()), "reviewable")
	}

	exists, err := s.repo.ExistsForBooking(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, domain.NewConflictError("booking has already been reviewed")
	}

	rv, err := reviewDomain.NewReview(bk.ID(), bk.ClientID(), bk.ProviderID(), req.Rating, req.Comment, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rv); err != nil {
		s.logger.Error("failed to save review", zap.Error(err))
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	result := toReviewDTO(rv)
	return &result, nil
}

// ListProviderReviews returns a provider's reviews, newest first.
func (s *ReviewService) ListProviderReviews(ctx context.Context, providerID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.repo.FindByProviderID(ctx, providerID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func toReviewDTO(rv *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:         rv.ID(),
		BookingID:  rv.BookingID(),
		ClientID:   rv.ClientID(),
		ProviderID: rv.ProviderID(),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
	}
}
