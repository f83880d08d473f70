package suppliers

import (
	"errors"
	"time"
)

// Supplier models a parts or service vendor serving the fleet.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Country   string    `json:"country,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ratings holds per-dimension scores on a 0 to 100 scale.
type Ratings struct {
	OnTime         float64 `json:"on_time"`
	Quality        float64 `json:"quality"`
	Price          float64 `json:"price"`
	Responsiveness float64 `json:"responsiveness"`
}

// Scorecard is the weighted evaluation derived from Ratings.
type Scorecard struct {
	SupplierID int64     `json:"supplier_id"`
	Ratings    Ratings   `json:"ratings"`
	Score      float64   `json:"score"`
	Grade      string    `json:"grade"`
	ScoredAt   time.Time `json:"scored_at"`
}

// ErrInvalidRating rejects dimension scores outside 0..100.
var ErrInvalidRating = errors.New("suppliers: rating must be between 0 and 100")

func (r Ratings) validate() error {
	for _, v := range []float64{r.OnTime, r.Quality, r.Price, r.Responsiveness} {
		if v < 0 || v > 100 {
			return ErrInvalidRating
		}
	}
	return nil
}

// Weighted combines the dimensions into one score. Delivery reliability
// dominates because a yacht waiting on a part cannot sail.
func (r Ratings) Weighted() float64 {
	return 0.4*r.OnTime + 0.3*r.Quality + 0.2*r.Price + 0.1*r.Responsiveness
}

// GradeFor maps a weighted score onto a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	}
	return "F"
}
