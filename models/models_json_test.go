package models

import (
	"encoding/json"
	"testing"
)

// TestMetadataJSONFieldNames verifies the metadata keys the chat widget reads
func TestMetadataJSONFieldNames(t *testing.T) {
	meta := Metadata{
		IntentCategory:      "Grundskola",
		Confidence:          5,
		UsedScraping:        true,
		UsedDiscoveredLinks: true,
		EnhancedResultCount: 3,
	}

	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("Failed to marshal metadata: %v", err)
	}

	var unmarshaled map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &unmarshaled); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	for _, key := range []string{"intentCategory", "confidence", "usedScraping", "usedDiscoveredLinks", "enhancedResultCount"} {
		if _, exists := unmarshaled[key]; !exists {
			t.Errorf("%s field is missing from JSON", key)
		}
	}

	// Warnings and scraped URL are omitted when empty
	if _, exists := unmarshaled["warnings"]; exists {
		t.Error("warnings field should be omitted when nil")
	}
	if _, exists := unmarshaled["scrapedUrl"]; exists {
		t.Error("scrapedUrl field should be omitted when empty")
	}
}

func TestScrapedPageOmitsEmptyError(t *testing.T) {
	page := ScrapedPage{URL: "https://www.botkyrka.se/", Content: "text", Success: true}

	jsonBytes, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("Failed to marshal page: %v", err)
	}

	var unmarshaled map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &unmarshaled); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if _, exists := unmarshaled["error"]; exists {
		t.Error("error field should be omitted for successful scrapes")
	}
}
