// Package report renders SLICC evaluations as downloadable PDF documents.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
)

const (
	// Title is the heading printed on every report.
	Title = "SLICC 2012 SLE Diagnostic Report"

	// TimestampLayout is YYYY-MM-DD HH:MM:SS.
	TimestampLayout = "2006-01-02 15:04:05"

	creator = "slicc-sle-calculator"
)

// Layout in points, measured from the top-left corner of a US Letter page.
const (
	marginLeft   = 50.0
	itemIndent   = 70.0
	marginTop    = 50.0
	marginBottom = 50.0
	lineStep     = 20.0
	sectionStep  = 30.0
)

// PDFRenderer renders reports with the fpdf backend.
type PDFRenderer struct {
	logger   *logrus.Logger
	compress bool
	author   string
	now      func() time.Time
}

// Option configures a PDFRenderer.
type Option func(*PDFRenderer)

// WithCompression toggles content stream compression.
func WithCompression(compress bool) Option {
	return func(r *PDFRenderer) {
		r.compress = compress
	}
}

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(r *PDFRenderer) {
		r.author = author
	}
}

// WithClock sets the fallback time source for reports without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *PDFRenderer) {
		r.now = now
	}
}

// NewPDFRenderer creates a renderer with compression enabled.
func NewPDFRenderer(logger *logrus.Logger, opts ...Option) *PDFRenderer {
	r := &PDFRenderer{
		logger:   logger,
		compress: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the complete PDF document. On failure no partial document
// is returned.
func (r *PDFRenderer) Render(data *domain.ReportData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo writes the PDF document to w.
func (r *PDFRenderer) RenderTo(w io.Writer, data *domain.ReportData) error {
	if data == nil {
		return domain.NewRenderError(fmt.Errorf("report data is required"))
	}

	generatedAt := data.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = r.now()
	}

	pdf := r.newDocument(generatedAt)
	page := &pageWriter{pdf: pdf}
	page.start()

	page.line(marginLeft, 0, "Helvetica", "B", 16, Title)
	page.line(marginLeft, 30, "Helvetica", "", 12, "Date: "+generatedAt.Format(TimestampLayout))
	page.line(marginLeft, 40, "Helvetica", "", 12, "Diagnosis: "+domain.DiagnosisLabel(data.Positive))

	page.section("Clinical Criteria Selected:", data.ClinicalSelected)
	page.section("Immunologic Criteria Selected:", data.ImmunologicSelected)

	page.line(marginLeft, sectionStep, "Helvetica", "", 12, fmt.Sprintf("Total Criteria Selected: %d", data.Total))

	if err := pdf.Error(); err != nil {
		return domain.NewRenderError(err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return domain.NewRenderError(err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return domain.NewRenderError(err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"pages":       pdf.PageCount(),
			"clinical":    len(data.ClinicalSelected),
			"immunologic": len(data.ImmunologicSelected),
		}).Debug("Rendered SLICC report")
	}
	return nil
}

func (r *PDFRenderer) newDocument(generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(Title, false)
	pdf.SetCreator(creator, false)
	if r.author != "" {
		pdf.SetAuthor(r.author, false)
	}
	pdf.SetCreationDate(generatedAt)
	return pdf
}

// pageWriter places lines top to bottom and starts a new page when the next
// line would cross the bottom margin.
type pageWriter struct {
	pdf *fpdf.Fpdf
	y   float64
}

func (p *pageWriter) start() {
	p.pdf.AddPage()
	p.y = marginTop
}

func (p *pageWriter) line(x, advance float64, family, style string, size float64, text string) {
	_, height := p.pdf.GetPageSize()
	if p.y+advance > height-marginBottom {
		p.start()
		advance = 0
	}
	p.y += advance
	p.pdf.SetFont(family, style, size)
	p.pdf.Text(x, p.y, text)
}

func (p *pageWriter) section(heading string, items []string) {
	p.line(marginLeft, sectionStep, "Helvetica", "B", 13, heading)
	for _, item := range items {
		p.line(itemIndent, lineStep, "Helvetica", "", 12, "- "+item)
	}
}
