package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Method is the label reported with text produced by this package.
const Method = "tesseract"

// Bounds is a word bounding box in pixel coordinates of the OCR input.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Word is one recognized word.
type Word struct {
	Text string `json:"text"`
	// Confidence is Tesseract's score for the word, 0-100.
	Confidence float64 `json:"confidence"`
	Bounds     Bounds  `json:"bounds"`
}

// Result is the text found in one image.
type Result struct {
	// Text keeps Tesseract's line breaks; blank lines are removed.
	Text string `json:"text"`
	// Confidence is the mean word confidence, 0-100. Zero when no words
	// were found.
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
	Method     string  `json:"method"`
}

// Options configures a Tesseract extractor.
type Options struct {
	// Language is a Tesseract language list such as "eng" or "eng+rus".
	// The matching traineddata files must be installed.
	Language string
	// Preprocess runs Prepare before recognition.
	Preprocess bool
	// Width is the target width for preprocessing.
	Width int
}

// Tesseract extracts text with a local Tesseract installation.
// A new client is created per call, so one Tesseract may be shared between
// goroutines.
type Tesseract struct {
	opts Options
}

// NewTesseract creates an extractor. An empty language means "eng".
func NewTesseract(opts Options) *Tesseract {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	return &Tesseract{opts: opts}
}

// Method returns the calibration label for this extractor.
func (t *Tesseract) Method() string {
	return Method
}

// Extract runs OCR on an in-memory image.
//
// Parameters:
//   - ctx: checked before and after recognition; Tesseract itself cannot be
//     interrupted once started.
//   - img: the screenshot or region to read.
//
// Returns:
//   - Result: recognized text, mean confidence and word boxes. If word
//     boxes cannot be read the text is still returned, with zero confidence.
//   - error: non-nil if encoding, language setup or recognition fails.
func (t *Tesseract) Extract(ctx context.Context, img image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if t.opts.Preprocess {
		img = Prepare(img, t.opts.Width)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(t.opts.Language, "+")...); err != nil {
		return Result{}, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("OCR failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Text: CleanText(text), Method: Method}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return res, nil
	}
	total := 0.0
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		conf := float64(box.Confidence)
		total += conf
		res.Words = append(res.Words, Word{
			Text:       word,
			Confidence: conf,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	if len(res.Words) > 0 {
		res.Confidence = total / float64(len(res.Words))
	}
	return res, nil
}

// CleanText trims each line, collapses runs of spaces inside it and drops
// empty lines. Line breaks are kept because app labels sit on separate
// lines under their icons.
func CleanText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
