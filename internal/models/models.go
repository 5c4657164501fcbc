package models

// Header is the fixed column order of the metadata export.
var Header = []string{
	"FILENAME",
	"SOURCE_TITLE",
	"SOURCE_NUMBER",
	"PAGE_NUMBER",
	"DATE",
	"TITLE",
	"DESCRIPTION",
	"FILETYPE",
	"FILESIZE",
	"DIMENSIONS",
	"CAPTION",
	"KEYWORDS",
}

// ImageRecord is one exported metadata row for a successfully processed page image
type ImageRecord struct {
	Filename     string `json:"filename" yaml:"filename" parquet:"FILENAME"`
	SourceTitle  string `json:"source_title" yaml:"source_title" parquet:"SOURCE_TITLE"`
	SourceNumber string `json:"source_number" yaml:"source_number" parquet:"SOURCE_NUMBER"`
	PageNumber   string `json:"page_number" yaml:"page_number" parquet:"PAGE_NUMBER"`
	Date         string `json:"date" yaml:"date" parquet:"DATE"`
	Title        string `json:"title" yaml:"title" parquet:"TITLE"`
	Description  string `json:"description" yaml:"description" parquet:"DESCRIPTION"`
	Filetype     string `json:"filetype" yaml:"filetype" parquet:"FILETYPE"`
	Filesize     string `json:"filesize" yaml:"filesize" parquet:"FILESIZE"`
	Dimensions   string `json:"dimensions" yaml:"dimensions" parquet:"DIMENSIONS"`
	Caption      string `json:"caption" yaml:"caption" parquet:"CAPTION"`
	Keywords     string `json:"keywords" yaml:"keywords" parquet:"KEYWORDS"`
}

// Fields returns the record keyed by export header name.
func (r ImageRecord) Fields() map[string]string {
	return map[string]string{
		"FILENAME":      r.Filename,
		"SOURCE_TITLE":  r.SourceTitle,
		"SOURCE_NUMBER": r.SourceNumber,
		"PAGE_NUMBER":   r.PageNumber,
		"DATE":          r.Date,
		"TITLE":         r.Title,
		"DESCRIPTION":   r.Description,
		"FILETYPE":      r.Filetype,
		"FILESIZE":      r.Filesize,
		"DIMENSIONS":    r.Dimensions,
		"CAPTION":       r.Caption,
		"KEYWORDS":      r.Keywords,
	}
}

// RecordFromFields is the inverse of Fields. Unknown keys are ignored.
func RecordFromFields(fields map[string]string) ImageRecord {
	return ImageRecord{
		Filename:     fields["FILENAME"],
		SourceTitle:  fields["SOURCE_TITLE"],
		SourceNumber: fields["SOURCE_NUMBER"],
		PageNumber:   fields["PAGE_NUMBER"],
		Date:         fields["DATE"],
		Title:        fields["TITLE"],
		Description:  fields["DESCRIPTION"],
		Filetype:     fields["FILETYPE"],
		Filesize:     fields["FILESIZE"],
		Dimensions:   fields["DIMENSIONS"],
		Caption:      fields["CAPTION"],
		Keywords:     fields["KEYWORDS"],
	}
}

// RunIdentity names one batch run
type RunIdentity struct {
	Number     int    `json:"number" yaml:"number"`
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
	FolderName string `json:"folder_name" yaml:"folder_name"`
}
