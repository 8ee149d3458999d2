package httpserver

import (
	"net/url"
	"testing"

	"github.com/Clark-Hu/streamcatalog/internal/catalog"
)

func TestParsePaging(t *testing.T) {
	tests := []struct {
		raw         string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 10},
		{"page=2&perPage=10", 2, 10},
		{"page= 3 &perPage= 5 ", 3, 5},
		{"page=0&perPage=0", 1, 10},
		{"page=-1&perPage=abc", 1, 10},
		{"page=1.5&perPage=2e3", 1, 10},
		{"perPage=1000", 1, catalog.MaxPerPage},
	}

	for _, tt := range tests {
		values, _ := url.ParseQuery(tt.raw)
		page, perPage := parsePaging(values)
		if page != tt.wantPage || perPage != tt.wantPerPage {
			t.Fatalf("parsePaging(%q) = %d/%d, want %d/%d", tt.raw, page, perPage, tt.wantPage, tt.wantPerPage)
		}
	}
}

func FuzzParsePaging(f *testing.F) {
	seeds := []string{
		"page=2&perPage=10",
		"page=abc",
		"perPage=100000000000000000000",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		page, perPage := parsePaging(values)
		if page < 1 {
			t.Fatalf("page %d < 1 for %q", page, raw)
		}
		if perPage < 1 || perPage > catalog.MaxPerPage {
			t.Fatalf("perPage %d out of range for %q", perPage, raw)
		}
	})
}

func TestCheckIDs(t *testing.T) {
	if err := checkIDs("platforms", nil); err != nil {
		t.Fatalf("nil ids: %v", err)
	}
	if err := checkIDs("platforms", []string{knownID}); err != nil {
		t.Fatalf("valid ids: %v", err)
	}
	if err := checkIDs("platforms", []string{knownID, "x"}); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}
