package rank

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botkyrka/assist/models"
)

const site = "https://www.botkyrka.se"

func hit(title, path, desc string) models.SearchResult {
	return models.SearchResult{Title: title, Link: site + path, Description: desc}
}

func TestResultsListingPageBeatsContactPage(t *testing.T) {
	results := []models.SearchResult{
		hit("Kontakta kommunen", "/kommun-och-politik/kontakta-kommunen", ""),
		hit("Grundskolor i Botkyrka — hitta din skola", "/skola-och-forskola/grundskola/grundskolor-i-botkyrka", ""),
	}

	ranked := Results(results, "vilka grundskolor finns i Botkyrka", Options{Category: "Grundskola"})

	require.Len(t, ranked, 2)
	assert.Equal(t, "Grundskolor i Botkyrka — hitta din skola", ranked[0].Title)
	// grundskolor + botkyrka in title, service path, listing page
	assert.Equal(t, 45, ranked[0].RelevanceScore)
	assert.Equal(t, 0, ranked[1].RelevanceScore)
}

func TestResultsPhraseMatchOutranksWordMatches(t *testing.T) {
	results := []models.SearchResult{
		hit("Bygglov ansöka tips", "/nyheter/tips", "Så kan du ansöka om bygglov här"),
		hit("Ansöka om bygglov", "/nyheter/ansokan", ""),
	}

	ranked := Results(results, "ansöka om bygglov", Options{})

	assert.Equal(t, "Ansöka om bygglov", ranked[0].Title)
	assert.Equal(t, 45, ranked[0].RelevanceScore)
	assert.Equal(t, 30, ranked[1].RelevanceScore)
}

func TestResultsServicePathBonus(t *testing.T) {
	results := []models.SearchResult{
		hit("Avfall", "/nyheter/avfall", ""),
		hit("Avfall", "/bo-och-leva/avfall", ""),
	}

	ranked := Results(results, "avfall", Options{})

	assert.Equal(t, site+"/bo-och-leva/avfall", ranked[0].Link)
	assert.Equal(t, ranked[1].RelevanceScore+15, ranked[0].RelevanceScore)
}

func TestResultsComplaintPenaltyForListingQueries(t *testing.T) {
	results := []models.SearchResult{
		hit("Synpunkter på skolor", "/skola-och-forskola/synpunkter", ""),
		hit("Information om skolor", "/skola-och-forskola/information", ""),
	}

	ranked := Results(results, "vilka skolor", Options{})

	assert.Equal(t, "Information om skolor", ranked[0].Title)
	assert.Equal(t, 25, ranked[0].RelevanceScore)
	assert.Equal(t, 22, ranked[1].RelevanceScore)
}

func TestResultsStableOnTies(t *testing.T) {
	results := []models.SearchResult{
		hit("Första", "/a", ""),
		hit("Andra", "/b", ""),
		hit("Tredje", "/c", ""),
	}

	ranked := Results(results, "bygglov", Options{})

	assert.Equal(t, []string{"Första", "Andra", "Tredje"}, titles(ranked))
}

func TestResultsCapped(t *testing.T) {
	var results []models.SearchResult
	for i := 0; i < 12; i++ {
		results = append(results, hit(fmt.Sprintf("Sida %d", i), fmt.Sprintf("/sida-%d", i), ""))
	}

	assert.Len(t, Results(results, "sida", Options{}), MaxResults)
	assert.Empty(t, Results(nil, "sida", Options{}))
}

func TestResultsDoesNotMutateInput(t *testing.T) {
	results := []models.SearchResult{hit("Förskola", "/skola-och-forskola/forskola", "")}

	Results(results, "förskola", Options{})

	assert.Equal(t, 0, results[0].RelevanceScore)
}

func TestIsListing(t *testing.T) {
	assert.True(t, IsListing("Vilka grundskolor finns?"))
	assert.True(t, IsListing("Which schools are there"))
	assert.True(t, IsListing("lista över förskolor"))
	assert.False(t, IsListing("Hej"))
	assert.False(t, IsListing("allmän information"))
}

func TestLinks(t *testing.T) {
	results := []models.SearchResult{
		hit("Kontakta kommunen", "/kommun-och-politik/kontakta-kommunen", ""),
		hit("Grundskolor i Botkyrka", "/skola-och-forskola/grundskola/grundskolor-i-botkyrka", ""),
		hit("Skolval", "/skola-och-forskola/grundskola/skolval", ""),
		hit("Ansök om plats i grundskola", "/sjalvservice-och-blanketter/ansok-grundskola", ""),
	}

	links := Links(results, "grundskolor", "Vilka grundskolor finns i Botkyrka?", "Grundskola")

	require.Len(t, links, 3, "contact page should fall below the threshold")
	assert.Equal(t, []string{"Grundskolor i Botkyrka", "Ansök om plats i grundskola", "Skolval"}, titles(links))
	assert.Equal(t, 43, links[0].RelevanceScore)
	assert.Equal(t, 11, links[1].RelevanceScore)
	assert.Equal(t, 5, links[2].RelevanceScore)
	assert.GreaterOrEqual(t, links[0].RelevanceScore, ScrapeThreshold)
}

func TestLinksContactPenaltyWaivedWhenAskingForContact(t *testing.T) {
	results := []models.SearchResult{hit("Kontakta kommunen", "/kommun-och-politik/kontakta-kommunen", "")}

	assert.Empty(t, Links(results, "skola", "hej", ""))

	links := Links(results, "kommunen", "kontakt med kommunen", "")
	require.Len(t, links, 1)
	// base, search word in text and href, then "kontakt" and "kommunen" as user words
	assert.Equal(t, 5+3+2+4+4, links[0].RelevanceScore)
}

func TestLinksCapped(t *testing.T) {
	var results []models.SearchResult
	for i := 0; i < 8; i++ {
		results = append(results, hit(fmt.Sprintf("Grundskolor i Botkyrka %d", i), "/skola", ""))
	}

	links := Links(results, "grundskolor", "vilka grundskolor", "Grundskola")

	require.Len(t, links, MaxLinks)
	assert.Equal(t, "Grundskolor i Botkyrka 0", links[0].Title)
}

func titles(results []models.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Title)
	}
	return out
}
