package service

import (
	"math"
	"sort"

	"github.com/Sazid669/github-readme-stats/model"
)

// Github reports Jupyter notebooks as their own language even though the
// cells are Python, so both are folded into a single Python bucket
const (
	jupyterLanguageName = "Jupyter Notebook"
	pythonLanguageName  = "Python"
	pythonLanguageColor = "#3572A5"
)

// ComputeTopLanguages runs the full aggregation pipeline over the repository
// nodes of one user: exclusion filter, size pre-sort, edge flattening,
// name normalization, per language aggregation, weighting and ranking.
// The computation is pure, everything is scoped to this single call.
func ComputeTopLanguages(repos []model.RepositoryRecord, excluded map[string]bool, sizeWeight float64, countWeight float64) model.TopLanguages {
	filtered := filterExcludedRepositories(repos, excluded)
	ordered := sortRepositoriesBySize(filtered)
	edges := flattenLanguageEdges(ordered)
	stats := aggregateLanguageEdges(edges)

	return rankLanguages(stats, sizeWeight, countWeight)
}

// filterExcludedRepositories removes every repository whose name belongs to
// the exclusion set. Names without a match are simply ignored
func filterExcludedRepositories(repos []model.RepositoryRecord, excluded map[string]bool) []model.RepositoryRecord {
	filtered := make([]model.RepositoryRecord, 0, len(repos))

	for _, repo := range repos {
		if excluded[repo.Name] {
			continue
		}

		filtered = append(filtered, repo)
	}

	return filtered
}

// sortRepositoriesBySize orders repositories descending by their declared
// size attribute. The languages query never fills this attribute, which makes
// the sort a stable no-op, and that behavior is kept on purpose: inferring a
// size from the language edges would reorder the flattened sequence and change
// the per entry counters
func sortRepositoriesBySize(repos []model.RepositoryRecord) []model.RepositoryRecord {
	ordered := make([]model.RepositoryRecord, len(repos))
	copy(ordered, repos)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Size > ordered[j].Size
	})

	return ordered
}

// flattenLanguageEdges concatenates every repository's edge list into one
// sequence. Repositories without any edge are skipped, and each repository's
// edges are prepended ahead of the previously collected ones, so the sequence
// walks repositories in reverse of the sorted order. The traversal order does
// not change any sum but it decides which edge touches a language first,
// which the contribution counter below depends on
func flattenLanguageEdges(repos []model.RepositoryRecord) []model.LanguageEdge {
	flattened := make([]model.LanguageEdge, 0)

	for _, repo := range repos {
		if len(repo.Languages.Edges) == 0 {
			continue
		}

		flattened = append(append([]model.LanguageEdge{}, repo.Languages.Edges...), flattened...)
	}

	return flattened
}

// canonicalLanguage maps an edge's language to its aggregation identity
func canonicalLanguage(lang model.Language) model.Language {
	if lang.Name == jupyterLanguageName {
		lang.Name = pythonLanguageName
	}

	if lang.Name == pythonLanguageName {
		lang.Color = pythonLanguageColor
	}

	return lang
}

// aggregateLanguageEdges folds the flattened edges into one entry per
// canonical language, summing sizes along the way. The contribution counter
// is a single scalar shared across the whole fold: it grows by one whenever
// an existing entry is extended and resets to one whenever a new entry
// starts, and every entry stores the counter value of its last touch. This
// mirrors the historical behavior consumers rely on, a per language
// repository count would produce different numbers (see DESIGN.md)
func aggregateLanguageEdges(edges []model.LanguageEdge) model.TopLanguages {
	stats := make(model.TopLanguages, 0)
	index := make(map[string]int)
	counter := 0

	for _, edge := range edges {
		lang := canonicalLanguage(edge.Node)

		if at, found := index[lang.Name]; found {
			counter++
			stats[at].Size += float64(edge.Size)
			stats[at].Color = lang.Color
			stats[at].Count = counter
			continue
		}

		counter = 1
		index[lang.Name] = len(stats)

		stats = append(stats, model.LanguageStat{
			Name:  lang.Name,
			Color: lang.Color,
			Size:  float64(edge.Size),
			Count: counter,
		})
	}

	return stats
}

// rankLanguages rescales every aggregate size with the caller supplied
// exponents and sorts the entries descending by the resulting score.
// sizeWeight=1 and countWeight=0 leave the sizes untouched. The sort is
// stable so ties keep their aggregation order
func rankLanguages(stats model.TopLanguages, sizeWeight float64, countWeight float64) model.TopLanguages {
	for i := range stats {
		stats[i].Size = math.Pow(stats[i].Size, sizeWeight) * math.Pow(float64(stats[i].Count), countWeight)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Size > stats[j].Size
	})

	return stats
}
