// Package filename extracts structural metadata embedded in scanned page filenames.
//
// Filenames follow the grammar
//
//	<SOURCE_TITLE>_<YYYY>_iss<N>_Page<N>.jpg
//
// and this package is the only place that knows about it.
package filename

import (
	"fmt"
	"regexp"
)

var pattern = regexp.MustCompile(`^(?P<SOURCE_TITLE>.+)_(?P<DATE>\d{4})_iss(?P<SOURCE_NUMBER>\d+)_Page(?P<PAGE_NUMBER>\d+)\.jpg$`)

// Metadata holds the fields parsed from a filename
type Metadata struct {
	SourceTitle  string
	Date         string
	SourceNumber string
	PageNumber   string
}

// Map returns the metadata keyed by export column name
func (m Metadata) Map() map[string]string {
	return map[string]string{
		"SOURCE_TITLE":  m.SourceTitle,
		"DATE":          m.Date,
		"SOURCE_NUMBER": m.SourceNumber,
		"PAGE_NUMBER":   m.PageNumber,
	}
}

// FormatError reports a filename that does not follow the expected grammar
type FormatError struct {
	Filename string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("filename %q does not match the expected pattern <SOURCE_TITLE>_<YYYY>_iss<N>_Page<N>.jpg", e.Filename)
}

// Parse extracts the structural fields from a base filename
func Parse(name string) (Metadata, error) {
	match := pattern.FindStringSubmatch(name)
	if match == nil {
		return Metadata{}, &FormatError{Filename: name}
	}

	return Metadata{
		SourceTitle:  match[pattern.SubexpIndex("SOURCE_TITLE")],
		Date:         match[pattern.SubexpIndex("DATE")],
		SourceNumber: match[pattern.SubexpIndex("SOURCE_NUMBER")],
		PageNumber:   match[pattern.SubexpIndex("PAGE_NUMBER")],
	}, nil
}
