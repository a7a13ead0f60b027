// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

// FlatPage is one globally addressable page of the concatenated playlist.
type FlatPage struct {
	DocumentIndex int    `json:"document_index"`
	PageNumber    int    `json:"page_number"`
	PageCount     int    `json:"page_count"`
	DocumentName  string `json:"document_name"`
}

// Flatten concatenates the pages of documents in document-major, page-minor order.
//
// DocumentIndex refers to the position in documents, so a document that failed
// to load (and is therefore absent) shifts nothing loaded before it.
func Flatten(documents []DocumentHandle) []FlatPage {
	total := 0
	for _, document := range documents {
		total += max(document.PageCount(), 0)
	}

	pages := make([]FlatPage, 0, total)
	for documentIndex, document := range documents {
		pageCount := document.PageCount()
		for pageNumber := 1; pageNumber <= pageCount; pageNumber++ {
			pages = append(pages, FlatPage{
				DocumentIndex: documentIndex,
				PageNumber:    pageNumber,
				PageCount:     pageCount,
				DocumentName:  document.Entry.DisplayName,
			})
		}
	}

	return pages
}
