package catalog

import (
	"sort"
	"strings"

	"github.com/JoLazarte/marketplace-client/internal/domain"
)

// GenreAll is the facet sentinel matching every genre.
const GenreAll = "All"

// bestsellerCount is how many items the bestseller view keeps.
const bestsellerCount = 3

// Filters compose conjunctively; the bestseller slice applies last.
type Filters struct {
	Genre      string `json:"genre"`
	Search     string `json:"search"`
	Bestseller bool   `json:"bestseller"`
}

func defaultFilters() Filters {
	return Filters{Genre: GenreAll}
}

func applyFilters(products []domain.Product, f Filters) []domain.Product {
	filtered := append([]domain.Product(nil), products...)

	if f.Genre != "" && f.Genre != GenreAll {
		kept := filtered[:0]
		for _, p := range filtered {
			if containsGenre(p.Genres, f.Genre) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		needle := strings.ToLower(search)
		kept := filtered[:0]
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Title), needle) ||
				strings.Contains(strings.ToLower(p.Author), needle) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if f.Bestseller {
		// Placeholder popularity heuristic: lowest ids first, top 3. There is
		// no real sales-ranking signal behind this.
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })
		if len(filtered) > bestsellerCount {
			filtered = filtered[:bestsellerCount]
		}
	}

	return filtered
}

func containsGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}

// deriveGenres is the union of all genre tags, in first-appearance order,
// prefixed with the GenreAll sentinel.
func deriveGenres(products []domain.Product) []string {
	genres := []string{GenreAll}
	seen := map[string]bool{}
	for _, p := range products {
		for _, g := range p.Genres {
			if !seen[g] {
				seen[g] = true
				genres = append(genres, g)
			}
		}
	}
	return genres
}
