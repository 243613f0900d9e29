// Package images finds stock photos for generated sites. Pexels is strictly
// best-effort: a missing API key or any provider failure falls back to
// deterministic placeholder URLs so generation never blocks on imagery.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

var (
	apiKey     string
	httpClient = &http.Client{Timeout: 10 * time.Second}
)

func Init(key string) {
	apiKey = key
}

func Configured() bool {
	return apiKey != ""
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// Find returns up to count photo URLs matching query.
func Find(ctx context.Context, query string, count int) []string {
	if apiKey == "" {
		return Placeholders(count)
	}

	reqURL := fmt.Sprintf("%s?query=%s&per_page=%d", pexelsSearchURL, url.QueryEscape(query), count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Placeholders(count)
	}
	req.Header.Set("Authorization", apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Printf("images: pexels request failed: %v", err)
		return Placeholders(count)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("images: pexels returned %d", resp.StatusCode)
		return Placeholders(count)
	}

	var parsed pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Placeholders(count)
	}

	urls := make([]string, 0, count)
	for _, photo := range parsed.Photos {
		if photo.Src.Large != "" {
			urls = append(urls, photo.Src.Large)
		}
	}
	if len(urls) == 0 {
		return Placeholders(count)
	}
	return urls
}

// Placeholders returns stable stand-in image URLs.
func Placeholders(count int) []string {
	urls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		urls = append(urls, fmt.Sprintf("https://picsum.photos/seed/clientmint-%d/1200/800", i+1))
	}
	return urls
}
