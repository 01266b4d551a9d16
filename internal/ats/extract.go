package ats

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field extraction runs an ordered list of extractors until one yields a
// non-empty result. No two ATS templates are reliable in isolation, so
// every field is a priority chain from the richest structured source down
// to a raw text fallback.

type extractor func(doc *goquery.Document) string

func firstMatch(doc *goquery.Document, extractors ...extractor) string {
	for _, ex := range extractors {
		if v := CleanText(ex(doc)); v != "" {
			return v
		}
	}
	return ""
}

func selectorText(sel string) extractor {
	return func(doc *goquery.Document) string {
		return doc.Find(sel).First().Text()
	}
}

func selectorHTML(sel string) extractor {
	return func(doc *goquery.Document) string {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			return ""
		}
		html, err := node.Html()
		if err != nil {
			return ""
		}
		return html
	}
}

func metaProperty(property string) extractor {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
		return v
	}
}

func metaName(name string) extractor {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(`meta[name="` + name + `"]`).Attr("content")
		return v
	}
}

// pageTitle reads the <title> tag stripped of a trailing site-name suffix
// ("Backend Engineer - Acme" -> "Backend Engineer").
func pageTitle(doc *goquery.Document) string {
	title := CleanText(doc.Find("title").First().Text())
	for _, sep := range []string{" - ", " | ", " – ", " — "} {
		if i := strings.LastIndex(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// CleanText collapses whitespace and non-breaking spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation trims labels and deduplicates comma-separated parts.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}
	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "Locations:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// boardHost returns the lowercase host of a URL, or the input when it does
// not parse.
func boardHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}
	return strings.ToLower(u.Host)
}
