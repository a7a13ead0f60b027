// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Inspector reads the page count of an uploaded file, rejecting non-PDFs.
type Inspector interface {
	PageCount(body io.ReadSeeker) (int, error)
}

// PDFInspector is an [Inspector] backed by pdfcpu.
type PDFInspector struct {
	conf *model.Configuration
}

// NewPDFInspector returns an inspector with relaxed validation, which accepts
// the slightly broken files office suites often produce.
func NewPDFInspector() *PDFInspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFInspector{conf: conf}
}

// PageCount implements [Inspector]. The body is rewound afterwards.
func (inspector *PDFInspector) PageCount(body io.ReadSeeker) (int, error) {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	pages, err := api.PageCount(body, inspector.conf)
	if err != nil {
		return 0, fmt.Errorf("inspect pdf: %w", err)
	}

	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return pages, nil
}
