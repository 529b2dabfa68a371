package services

import (
	"path/filepath"
	"strings"
)

// Format identifies the extraction strategy for an uploaded file.
type Format string

const (
	FormatPDF          Format = "pdf"
	FormatDocx         Format = "docx"
	FormatText         Format = "text"
	FormatFallbackText Format = "fallback-text"
)

// DetectFormat maps a filename to its extraction strategy based on the
// lower-cased extension. Every filename resolves to a strategy; unknown
// extensions fall back to a raw UTF-8 decode.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx", ".doc":
		return FormatDocx
	case ".txt":
		return FormatText
	default:
		return FormatFallbackText
	}
}
