package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"foodgram/logger"
	"foodgram/models"
	"foodgram/utils"
)

// ShoppingListHeader is the first line of every exported shopping list
const ShoppingListHeader = "Список покупок:"

// linesPerPage follows the A4 geometry of the printed list:
// first line 750pt from the bottom, 25pt step, 50pt bottom margin.
const linesPerPage = 29

// Printed page geometry in millimetres. The header and linesPerPage lines
// must fit in pageHeightMM minus the vertical padding.
const (
	pageHeightMM   = 297.0
	pagePaddingYMM = 14.0
	pagePaddingXMM = 26.0
	lineHeightMM   = 8.8
	headerHeightMM = 12.0
)

type pageLayout struct {
	PageHeight   float64
	PaddingY     float64
	PaddingX     float64
	LineHeight   float64
	HeaderHeight float64
}

var printLayout = pageLayout{
	PageHeight:   pageHeightMM,
	PaddingY:     pagePaddingYMM,
	PaddingX:     pagePaddingXMM,
	LineHeight:   lineHeightMM,
	HeaderHeight: headerHeightMM,
}

// Format is an export document format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatText Format = "txt"
)

// ParseFormat validates a format query value; empty means PDF
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatHTML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q. Valid formats: pdf, html, txt", s)
	}
}

// ErrFontUnavailable is returned when the font used for the document cannot be loaded
var ErrFontUnavailable = errors.New("shopping list font unavailable")

// RenderError wraps every failure to produce a document
type RenderError struct {
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s shopping list: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Document is a rendered shopping list ready to be sent as an attachment
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DocumentRenderer renders a report into one document format
type DocumentRenderer interface {
	Format() Format
	Render(ctx context.Context, report models.Report) (*Document, error)
}

//go:embed templates/shopping_list.html
var templatesFS embed.FS

var shoppingListTemplate = template.Must(template.ParseFS(templatesFS, "templates/shopping_list.html"))

// FormatLines returns one "{i}) {Name} - {total} {unit}." line per entry
func FormatLines(report models.Report) []string {
	lines := make([]string, 0, len(report.Entries))
	for i, entry := range report.Entries {
		lines = append(lines, fmt.Sprintf("%d) %s - %d %s.", i+1, utils.Capitalize(entry.Name), entry.TotalAmount, entry.MeasurementUnit))
	}
	return lines
}

// paginateLines splits lines into pages of linesPerPage; an empty list still has one page
func paginateLines(lines []string) [][]string {
	if len(lines) == 0 {
		return [][]string{{}}
	}

	var pages [][]string
	for i := 0; i < len(lines); i += linesPerPage {
		end := i + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[i:end])
	}
	return pages
}

// TextRenderer renders the list as plain UTF-8 text
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) Format() Format { return FormatText }

func (r *TextRenderer) Render(_ context.Context, report models.Report) (*Document, error) {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteString("\n")
	for _, line := range FormatLines(report) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return &Document{
		Data:        []byte(b.String()),
		ContentType: "text/plain; charset=utf-8",
		Filename:    "shopping_list.txt",
	}, nil
}

// HTMLRenderer renders the printable HTML page with the font embedded
type HTMLRenderer struct {
	fontPath string
}

func NewHTMLRenderer(fontPath string) *HTMLRenderer {
	return &HTMLRenderer{fontPath: fontPath}
}

func (r *HTMLRenderer) Format() Format { return FormatHTML }

func (r *HTMLRenderer) Render(_ context.Context, report models.Report) (*Document, error) {
	html, err := r.renderHTML(report)
	if err != nil {
		return nil, &RenderError{Format: FormatHTML, Err: err}
	}
	return &Document{
		Data:        html,
		ContentType: "text/html; charset=utf-8",
		Filename:    "shopping_list.html",
	}, nil
}

func (r *HTMLRenderer) renderHTML(report models.Report) ([]byte, error) {
	fontFace, err := loadFontFace(r.fontPath)
	if err != nil {
		return nil, err
	}

	templateData := struct {
		Header   string
		FontFace template.CSS
		Layout   pageLayout
		Pages    [][]string
	}{
		Header:   ShoppingListHeader,
		FontFace: fontFace,
		Layout:   printLayout,
		Pages:    paginateLines(FormatLines(report)),
	}

	var buf bytes.Buffer
	if err := shoppingListTemplate.Execute(&buf, templateData); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// loadFontFace reads the TTF font and returns an @font-face rule embedding it as a data URI
func loadFontFace(path string) (template.CSS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str("font_path", path).Msg("❌ Shopping list font not readable")
		return "", fmt.Errorf("%w: %s: %v", ErrFontUnavailable, path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrFontUnavailable, path)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return template.CSS(fmt.Sprintf(
		"@font-face { font-family: 'ShoppingListFont'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
		encoded,
	)), nil
}

// PDFRenderer prints the HTML page to A4 PDF with headless Chrome
type PDFRenderer struct {
	html       *HTMLRenderer
	chromePath string
	timeout    time.Duration
}

func NewPDFRenderer(html *HTMLRenderer, chromePath string, timeout time.Duration) *PDFRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PDFRenderer{html: html, chromePath: chromePath, timeout: timeout}
}

func (r *PDFRenderer) Format() Format { return FormatPDF }

func (r *PDFRenderer) Render(ctx context.Context, report models.Report) (*Document, error) {
	html, err := r.html.renderHTML(report)
	if err != nil {
		return nil, &RenderError{Format: FormatPDF, Err: err}
	}

	pdf, err := r.printToPDF(ctx, string(html))
	if err != nil {
		return nil, &RenderError{Format: FormatPDF, Err: err}
	}

	return &Document{
		Data:        pdf,
		ContentType: "application/pdf",
		Filename:    "shopping_list.pdf",
	}, nil
}

func (r *PDFRenderer) printToPDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(r.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	var fontsReady bool
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		// The font is a data URI; wait until it is decoded before printing
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// detectChromePath returns the configured Chrome path if it exists, then common installation paths.
// An empty result lets chromedp search $PATH itself.
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		logger.Warn().Str("chrome_path", configured).Msg("⚠️  CHROME_PATH does not exist, falling back to auto-detection")
	}

	for _, path := range []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
