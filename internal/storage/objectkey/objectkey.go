// Package objectkey builds and sanitizes object store keys. Keys are the
// store's only addressing mechanism, so every segment that originates from
// user input passes through Sanitize before it becomes part of a key.
package objectkey

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// TempPrefix namespaces short-lived uploads.
	TempPrefix = "temp"
	// DraftPrefix namespaces images uploaded before a product exists.
	DraftPrefix = "drafts"

	// FallbackSegment replaces a segment that sanitizes to nothing.
	FallbackSegment = "default"

	fallbackSupplier = "unknown-supplier"
	fallbackCatalog  = "unknown-catalog"
	fallbackCategory = "unknown-category"
	fallbackProduct  = "unknown-product"
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9\-_.]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Sanitize lower-cases s, replaces every run of characters outside
// [a-z0-9-_.] with a single hyphen, collapses repeated hyphens, and trims
// leading and trailing hyphens. An empty result falls back to a fixed
// placeholder. Sanitize is idempotent.
func Sanitize(s string) string {
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "-")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return FallbackSegment
	}
	return s
}

// UniqueFileName sanitizes the base name of original, preserves its extension
// untouched, and appends a timestamp plus a random token so concurrent
// uploads sharing a base name never collide.
func UniqueFileName(original string) string {
	ext := filepath.Ext(original)
	base := Sanitize(strings.TrimSuffix(filepath.Base(original), ext))
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s%s", base, time.Now().UnixMilli(), token, ext)
}

// DraftKey returns the key for a draft image: drafts/{draftID}/{filename}.
func DraftKey(draftID int64, filename string) string {
	return fmt.Sprintf("%s/%d/%s", DraftPrefix, draftID, filename)
}

// DraftFolder returns the prefix holding all of a draft's images.
func DraftFolder(draftID int64) string {
	return fmt.Sprintf("%s/%d/", DraftPrefix, draftID)
}

// TempKey returns the key for a short-lived upload: temp/{id}/{filename}.
// The filename's base is sanitized like every other user-supplied segment,
// with the extension preserved untouched.
func TempKey(id string, filename string) string {
	ext := filepath.Ext(filename)
	base := Sanitize(strings.TrimSuffix(filepath.Base(filename), ext))
	return fmt.Sprintf("%s/%s/%s%s", TempPrefix, Sanitize(id), base, ext)
}

// FinalKey returns the deterministic, human-browsable key a published
// product image lives under:
//
//	{supplier}/{catalog}/{category}/{product}_{productID}/{filename}
//
// A blank supplier, catalog, category, or product name substitutes a literal
// fallback segment so publication is never blocked by missing metadata.
func FinalKey(supplier, catalog, category, product string, productID int64, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s_%d/%s",
		segment(supplier, fallbackSupplier),
		segment(catalog, fallbackCatalog),
		segment(category, fallbackCategory),
		segment(product, fallbackProduct),
		productID,
		filename,
	)
}

// FinalFolder returns the prefix holding a published product's images.
func FinalFolder(supplier, catalog, category, product string, productID int64) string {
	return fmt.Sprintf("%s/%s/%s/%s_%d/",
		segment(supplier, fallbackSupplier),
		segment(catalog, fallbackCatalog),
		segment(category, fallbackCategory),
		segment(product, fallbackProduct),
		productID,
	)
}

func segment(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return Sanitize(s)
}
