// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collect

import (
	"net/url"
	"strings"
)

// =============================================================================
// LISTING TYPES
// =============================================================================

// Listing is the wire shape of a subreddit listing endpoint.
type Listing struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Post is one submission in a listing.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsGallery bool   `json:"is_gallery"`

	GalleryData struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`

	MediaMetadata map[string]struct {
		S struct {
			U string `json:"u"`
		} `json:"s"`
	} `json:"media_metadata"`

	Preview struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

// imageHosts are CDN hosts whose URLs are canonicalized to strip
// size/preview query variants.
var imageHosts = map[string]bool{
	"i.redd.it":           true,
	"preview.redd.it":     true,
	"i.reddituploads.com": true,
}

// directImageExts are extensions accepted from external hosts.
var directImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// =============================================================================
// IMAGE URL EXTRACTION
// =============================================================================

// ImageURLs extracts the best image URLs from a post, preferring the
// single highest-quality source:
//  1. gallery source images (never preview sizes)
//  2. the post URL when it points at a known image host
//  3. direct external image links by extension
//  4. the first preview source, only when nothing else matched
func (p *Post) ImageURLs() []string {
	var urls []string

	if p.IsGallery && len(p.MediaMetadata) > 0 {
		for _, item := range p.GalleryData.Items {
			meta, ok := p.MediaMetadata[item.MediaID]
			if !ok {
				continue
			}
			src := meta.S.U
			if strings.HasPrefix(src, "http") {
				urls = append(urls, strings.ReplaceAll(src, "&amp;", "&"))
			}
		}
	}

	if len(urls) == 0 && strings.HasPrefix(p.URL, "http") {
		if u, err := url.Parse(p.URL); err == nil && imageHosts[strings.ToLower(u.Host)] {
			urls = append(urls, p.URL)
		}
	}

	if len(urls) == 0 && strings.HasPrefix(strings.ToLower(p.URL), "http") {
		lower := strings.ToLower(p.URL)
		for _, ext := range directImageExts {
			if strings.HasSuffix(lower, ext) {
				urls = append(urls, p.URL)
				break
			}
		}
	}

	if len(urls) == 0 {
		for _, img := range p.Preview.Images {
			src := img.Source.URL
			if strings.HasPrefix(src, "http") {
				urls = append(urls, strings.ReplaceAll(src, "&amp;", "&"))
				break // only one
			}
		}
	}

	// De-dup by canonical form, keeping the original URLs
	var deduped []string
	seen := make(map[string]bool)
	for _, u := range urls {
		canon := normalizeImageURL(u)
		if !seen[canon] {
			deduped = append(deduped, u)
			seen[canon] = true
		}
	}
	return deduped
}

// normalizeImageURL keeps only scheme, host, and path for known image
// hosts so size and preview variants of the same image compare equal.
func normalizeImageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.ToLower(u.Host)
	if !imageHosts[host] {
		return raw
	}
	return u.Scheme + "://" + host + u.Path
}
