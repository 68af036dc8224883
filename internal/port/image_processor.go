package port

// ImageProcessOptions controls how an image is transformed before upload.
// Fit is "cover" (crop to fill) or "contain" (shrink to fit).
type ImageProcessOptions struct {
	Width   int
	Height  int
	Quality int
	Format  string
	Fit     string
}

// ImageProcessor transforms an image buffer. Implementations handle decode,
// resize, and re-encode; callers treat it as a pure buffer-in, buffer-out
// function.
type ImageProcessor interface {
	Process(buf []byte, opts ImageProcessOptions) ([]byte, error)
}
