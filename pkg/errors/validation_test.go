package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid country", "US", false},
		{"valid operator", "SpaceX / Starlink", false},
		{"valid with unicode", "Côte d'Ivoire", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"plain", "2001", 2001, false},
		{"padded", " 1998 ", 1998, false},
		{"lower bound", "1900", 1900, false},

		{"empty", "", 0, true},
		{"fraction", "2001.5", 0, true},
		{"word", "twenty", 0, true},
		{"too early", "1800", 0, true},
		{"too late", "3000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYear(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseYear(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidYear) {
				t.Errorf("ParseYear(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidYear)
			}
			if got != tt.want {
				t.Errorf("ParseYear(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/clean_leo_satellites.csv", false},
		{"absolute", "/tmp/out", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "data\x00.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://en.wikipedia.org/api/rest_v1/page/summary", false},
		{"http", "http://localhost:8080", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
