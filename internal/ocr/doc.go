// Package ocr reads app labels from home-screen images with Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Its output
// is plain text evidence for the matching engine, labelled with Method so
// the engine can calibrate confidence per recognizer.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-rus
//   - macOS: brew install tesseract tesseract-lang
//
// The default language list is "eng+rus" because catalog aliases include
// Cyrillic names.
//
// # Preprocessing
//
// Prepare converts to grayscale, raises contrast, sharpens and scales the
// image toward 1200 px wide before recognition. It is enabled by default and
// can be switched off in the [ocr] config section.
//
// # Text Layout
//
// Result.Text keeps line breaks. Launchers print each label on its own line,
// and the per-line matching strategy relies on that.
//
// # Concurrency
//
// Tesseract creates a fresh gosseract client per Extract call, so a single
// extractor can serve concurrent scans.
package ocr
