package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	// Convert to lowercase
	s = strings.ToLower(s)

	// Replace spaces with hyphens
	s = strings.ReplaceAll(s, " ", "-")

	// Remove non-alphanumeric characters except hyphens
	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	// Remove multiple consecutive hyphens
	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	// Trim hyphens from start and end
	s = strings.Trim(s, "-")

	return s
}

// GenerateSaleNo generates a globally unique, shop-scoped, time-derived
// sale number, e.g. INV-MAIN-20260822T101530Z-A1B2C3D4
func GenerateSaleNo(shopCode string, at time.Time) string {
	return "INV-" + strings.ToUpper(shopCode) + "-" +
		at.UTC().Format("20060102T150405Z") + "-" +
		strings.ToUpper(uuid.New().String()[:8])
}

// GenerateReferenceNo generates a unique reference number
func GenerateReferenceNo(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
