package objectkey

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var keyCharset = regexp.MustCompile(`^[a-z0-9\-_.]+$`)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Acme Co":           "acme-co",
		"Summer":            "summer",
		"Red Tee":           "red-tee",
		"  spaced  out  ":   "spaced-out",
		"Ünïcödé Nämé":      "n-c-d-n-m",
		"already-sane_1.2":  "already-sane_1.2",
		"---":               "default",
		"":                  "default",
		"!!!":               "default",
		"A//B\\C":           "a-b-c",
		"MiXeD CaSe--Stuff": "mixed-case-stuff",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), "input %q", in)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"Acme Co", "weird!!chars##", "", "shirt.png", "a--b", "Ünïcödé"}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		assert.Regexp(t, keyCharset, once)
		assert.NotEmpty(t, once)
	}
}

func TestUniqueFileName(t *testing.T) {
	a := UniqueFileName("My Photo.PNG")
	b := UniqueFileName("My Photo.PNG")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "my-photo_"))
	assert.True(t, strings.HasSuffix(a, ".PNG"), "extension preserved untouched: %s", a)
}

func TestUniqueFileName_NoExtension(t *testing.T) {
	name := UniqueFileName("README")
	assert.True(t, strings.HasPrefix(name, "readme_"))
	assert.NotContains(t, name, ".")
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "drafts/42/shirt.png", DraftKey(42, "shirt.png"))
	assert.Equal(t, "drafts/42/", DraftFolder(42))
}

func TestTempKey(t *testing.T) {
	assert.Equal(t, "temp/abc123/logo.svg", TempKey("abc123", "logo.svg"))
}

func TestTempKey_SanitizesFilename(t *testing.T) {
	assert.Equal(t, "temp/abc123/my-logo.SVG", TempKey("abc123", "My Logo!.SVG"))
	// Directory components never survive into the key.
	assert.Equal(t, "temp/a/passwd", TempKey("a", "../../etc/passwd"))
	assert.Equal(t, "temp/a/default.png", TempKey("a", "///.png"))
}

func TestFinalKey(t *testing.T) {
	key := FinalKey("Acme Co", "Summer", "Shirts", "Red Tee", 7, "shirt.png")
	assert.Equal(t, "acme-co/summer/shirts/red-tee_7/shirt.png", key)
}

func TestFinalKey_MissingSegmentsFallBack(t *testing.T) {
	key := FinalKey("", "  ", "", "", 9, "a.jpg")
	assert.Equal(t, "unknown-supplier/unknown-catalog/unknown-category/unknown-product_9/a.jpg", key)
}

func TestFinalFolder(t *testing.T) {
	folder := FinalFolder("Acme Co", "Summer", "Shirts", "Red Tee", 7)
	assert.Equal(t, "acme-co/summer/shirts/red-tee_7/", folder)
}
