package news

import "fmt"

// SortOption is the underlying value of one of the site's sort <option> tags.
type SortOption string

const (
	SortBest   SortOption = "best"
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
)

// ParseSortOption accepts an empty string (no sort change) or one of the
// known option values.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(s) {
	case "", SortBest, SortNewest, SortOldest:
		return SortOption(s), nil
	default:
		return "", fmt.Errorf("unknown sort option %q", s)
	}
}

// Criteria is the immutable input of a single run.
type Criteria struct {
	Phrase  string
	Section string
	Type    string
	// Period is the raw month-count code; a non-integer means no date filter.
	Period string
	Sort   SortOption
}

// Record is one extracted search result. ImageName and ImagePath are empty
// when the result had no usable thumbnail.
type Record struct {
	Title         string
	Date          string
	Description   string
	PhraseCount   int
	MentionsMoney bool
	ImageName     string
	ImagePath     string
}

// Field names in the order they are written to a worksheet.
const (
	FieldTitle       = "title"
	FieldDate        = "date"
	FieldDescription = "description"
	FieldPhraseCount = "search_pharse_appear"
	FieldMoney       = "exist_moneys"
	FieldImageName   = "image_name"
	FieldImagePath   = "image_path"
)

// Field is a single name/value pair of a record.
type Field struct {
	Name  string
	Value any
}

// Fields returns the record as ordered name/value pairs.
func (r Record) Fields() []Field {
	return []Field{
		{FieldTitle, r.Title},
		{FieldDate, r.Date},
		{FieldDescription, r.Description},
		{FieldPhraseCount, r.PhraseCount},
		{FieldMoney, r.MentionsMoney},
		{FieldImageName, r.ImageName},
		{FieldImagePath, r.ImagePath},
	}
}

// HasImage reports whether the record references a saved thumbnail.
func (r Record) HasImage() bool {
	return r.ImagePath != ""
}
