// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package filename turns user supplied upload names into storage-safe names.
//
// # Usage
//
// Uploaded PDFs keep a readable name on the CDN ("1718000000000-Menu_ete.pdf").
// This package handles normalization, accent removal, and character sanitization.
package filename

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// unsafeChars matches anything outside the storage-safe alphabet.
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// fallbackName is used when nothing of the original name survives.
const fallbackName = "document.pdf"

// Sanitize converts an arbitrary Unicode file name into a storage-safe ASCII name.
//
// # Transformation Pipeline
//
// 1. Drops any directory component sent by the client.
// 2. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 3. Removes combining marks (accents).
// 4. Replaces every character outside [a-zA-Z0-9.-] with an underscore.
func Sanitize(name string) string {

	// 1. Browsers on Windows may send full paths
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}

	// 2. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, name)

	// 3. Replace special chars
	result = unsafeChars.ReplaceAllString(result, "_")

	if strings.Trim(result, "_.") == "" {
		return fallbackName
	}
	return result
}

// Unique prefixes the sanitized name with the upload time in Unix milliseconds,
// so that re-uploading a file never overwrites the previous blob.
func Unique(name string, at time.Time) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), Sanitize(name))
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
