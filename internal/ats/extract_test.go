package ats

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n\tb  c "))
	assert.Equal(t, "", CleanText("   "))
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Location: São Paulo, SP", "São Paulo, SP"},
		{"São Paulo, São Paulo, Brazil", "São Paulo, Brazil"},
		{"Remote,  remote , Brazil", "Remote, Brazil"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLocation(tt.in))
	}
}

func TestPageTitleStripsSiteSuffix(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{"<title>Backend Engineer - Acme</title>", "Backend Engineer"},
		{"<title>Backend Engineer | Acme Careers</title>", "Backend Engineer"},
		{"<title>Backend Engineer</title>", "Backend Engineer"},
	}
	for _, tt := range tests {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
		require.NoError(t, err)
		assert.Equal(t, tt.want, pageTitle(doc))
	}
}

func TestFirstMatchPriority(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><meta property="og:title" content="Meta Title"></head>` +
			`<body><h1>Heading Title</h1></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Heading Title", firstMatch(doc, selectorText("h1"), metaProperty("og:title")))
	assert.Equal(t, "Meta Title", firstMatch(doc, selectorText(".missing"), metaProperty("og:title")))
	assert.Equal(t, "", firstMatch(doc, selectorText(".missing")))
}

func TestBoardHost(t *testing.T) {
	assert.Equal(t, "boards.greenhouse.io", boardHost("https://boards.greenhouse.io/acme"))
	assert.Equal(t, "not a url", boardHost("not a url"))
}
