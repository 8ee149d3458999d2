package catalog

import "github.com/Clark-Hu/streamcatalog/internal/domain"

// GroupByPlatform groups join rows by platform title, keeping row order within
// each group. A review referencing several platforms shows up in each of their
// groups; a review with no joined platform shows up nowhere.
func GroupByPlatform(rows []domain.PlatformReview) domain.ReviewsByPlatform {
	grouped := make(domain.ReviewsByPlatform)
	for _, row := range rows {
		title := row.PlatformInfo.Title
		grouped[title] = append(grouped[title], row)
	}
	return grouped
}
