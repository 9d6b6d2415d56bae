// Package stats turns a recipient's feedback records into the dashboard
// metrics: average rating, rating distribution, per-category means, and a
// day-bucketed trend series. Every function is pure and deterministic over
// its input, which is expected newest-first (the order the feedback
// repository returns).
package stats

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/models"
)

// CategoryScore is the mean rating of one category group.
type CategoryScore struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// DistributionBucket is the response count for one star value.
type DistributionBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendPoint is the mean rating for one calendar day.
type TrendPoint struct {
	Date   string  `json:"date"`
	Rating float64 `json:"rating"`
}

// Summary is the full set of dashboard metrics for one recipient.
type Summary struct {
	AverageRating  float64              `json:"average_rating"`
	TotalResponses int                  `json:"total_responses"`
	CategoryScores []CategoryScore      `json:"category_scores"`
	TopCategory    *CategoryScore       `json:"top_category,omitempty"`
	Distribution   []DistributionBucket `json:"distribution"`
	Trend          []TrendPoint         `json:"trend"`
}

// Summarize computes all metrics in one pass set. labels maps category ids
// to display labels (template-derived); ids missing from it fall back to
// the legacy label set, then to a humanized form of the id itself.
func Summarize(items []models.Feedback, labels map[string]string) Summary {
	scores, top := CategoryScores(items, labels)
	return Summary{
		AverageRating:  AverageRating(items),
		TotalResponses: len(items),
		CategoryScores: scores,
		TopCategory:    top,
		Distribution:   Distribution(items),
		Trend:          Trend(items),
	}
}

// AverageRating is the arithmetic mean of all ratings rounded to one
// decimal, or 0.0 for an empty collection.
func AverageRating(items []models.Feedback) float64 {
	if len(items) == 0 {
		return 0.0
	}
	sum := 0
	for _, f := range items {
		sum += f.Rating
	}
	return round1(float64(sum) / float64(len(items)))
}

// CategoryScores groups records by category and returns each group's mean
// rating, in first-encountered order, together with the top group. Ties on
// the maximum mean resolve to the first-encountered group.
func CategoryScores(items []models.Feedback, labels map[string]string) ([]CategoryScore, *CategoryScore) {
	type group struct {
		sum   int
		count int
	}

	var order []string
	groups := make(map[string]*group)
	for _, f := range items {
		g, ok := groups[f.Category]
		if !ok {
			g = &group{}
			groups[f.Category] = g
			order = append(order, f.Category)
		}
		g.sum += f.Rating
		g.count++
	}

	scores := make([]CategoryScore, 0, len(order))
	var top *CategoryScore
	for _, id := range order {
		g := groups[id]
		score := CategoryScore{
			Category: Label(id, labels),
			Rating:   round1(float64(g.sum) / float64(g.count)),
		}
		scores = append(scores, score)
		if top == nil || score.Rating > top.Rating {
			s := score
			top = &s
		}
	}

	return scores, top
}

// Distribution counts records per integer rating. All five buckets are
// always present, ordered five stars down to one for display.
func Distribution(items []models.Feedback) []DistributionBucket {
	counts := make(map[int]int, constants.MaxRating)
	for _, f := range items {
		counts[f.Rating]++
	}

	buckets := make([]DistributionBucket, 0, constants.MaxRating)
	for rating := constants.MaxRating; rating >= constants.MinRating; rating-- {
		name := "Stars"
		if rating == 1 {
			name = "Star"
		}
		buckets = append(buckets, DistributionBucket{
			Name:  strconv.Itoa(rating) + " " + name,
			Value: counts[rating],
		})
	}
	return buckets
}

// Trend takes the trend window of most recent records, restores
// chronological order, and buckets by calendar day. Each day's value is a
// running mean folded record by record; the result matches the plain
// per-day average after rounding to one decimal.
func Trend(items []models.Feedback) []TrendPoint {
	window := items
	if len(window) > constants.TrendWindowSize {
		window = window[:constants.TrendWindowSize]
	}

	type bucket struct {
		mean  float64
		count int
	}

	var order []string
	buckets := make(map[string]*bucket)

	// Input is newest-first; walk backwards for oldest-first folding.
	for i := len(window) - 1; i >= 0; i-- {
		f := window[i]
		day := f.CreatedAt.Format("Jan 2")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
			order = append(order, day)
		}
		b.mean = (b.mean*float64(b.count) + float64(f.Rating)) / float64(b.count+1)
		b.count++
	}

	points := make([]TrendPoint, 0, len(order))
	for _, day := range order {
		points = append(points, TrendPoint{
			Date:   day,
			Rating: round1(buckets[day].mean),
		})
	}
	return points
}

// Label resolves a category id to its display label: the provided mapping
// first, the legacy fixed set second, a humanized form of the id last.
func Label(id string, labels map[string]string) string {
	if label, ok := labels[id]; ok {
		return label
	}
	for _, c := range models.LegacyCategories {
		if c.ID == id {
			return c.Label
		}
	}
	return humanize(id)
}

func humanize(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
