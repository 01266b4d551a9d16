package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRemote(t *testing.T) {
	tests := []struct {
		name        string
		description string
		location    string
		want        bool
	}{
		{"remote in location", "Backend role", "Remote", true},
		{"remote in description", "This is a fully remote position", "São Paulo", true},
		{"portuguese remoto", "Trabalho remoto", "", true},
		{"home office", "", "Home Office - Brasil", true},
		{"anywhere", "Work from anywhere", "", true},
		{"case insensitive", "", "REMOTE (LATAM)", true},
		{"onsite", "Onsite position in our office", "São Paulo, SP", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectRemote(tt.description, tt.location))
		})
	}
}

func TestURLSourceKey(t *testing.T) {
	assert.Equal(t, "url:https://example.com/jobs/1", URLSourceKey("https://example.com/jobs/1"))
}

func TestCompanyCrawlable(t *testing.T) {
	tests := []struct {
		name    string
		company Company
		want    bool
	}{
		{"full", Company{ATSProvider: ATSGreenhouse, CareersURL: "https://boards.greenhouse.io/acme"}, true},
		{"no provider", Company{CareersURL: "https://acme.com/jobs"}, false},
		{"unknown provider", Company{ATSProvider: ATSUnknown, CareersURL: "https://acme.com/jobs"}, false},
		{"no careers url", Company{ATSProvider: ATSLever}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.company.Crawlable())
		})
	}
}
