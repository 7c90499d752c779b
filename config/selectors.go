package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors holds every CSS selector the site adapter uses. Result* and
// Option* selectors are relative to their parent element.
type Selectors struct {
	Overlay      string `yaml:"overlay"`
	SearchButton string `yaml:"search_button"`
	SearchInput  string `yaml:"search_input"`
	SortSelect   string `yaml:"sort_select"`

	SectionForm       string `yaml:"section_form"`
	TypeForm          string `yaml:"type_form"`
	MultiSelectButton string `yaml:"multi_select_button"`
	MultiSelectList   string `yaml:"multi_select_list"`
	OptionItem        string `yaml:"option_item"`
	OptionLabel       string `yaml:"option_label"`

	DateForm     string `yaml:"date_form"`
	DateDropdown string `yaml:"date_dropdown"`
	DateOption   string `yaml:"date_option"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`

	ShowMore   string `yaml:"show_more"`
	ResultList string `yaml:"result_list"`
	ResultItem string `yaml:"result_item"`

	ResultDate        string `yaml:"result_date"`
	ResultTitle       string `yaml:"result_title"`
	ResultDescription string `yaml:"result_description"`
	ResultImage       string `yaml:"result_image"`
}

// DefaultSelectors targets the nytimes.com search page.
func DefaultSelectors() Selectors {
	return Selectors{
		Overlay:      "#complianceOverlay button",
		SearchButton: "button[data-testid*='search-button']",
		SearchInput:  "input[data-testid*='search-input']",
		SortSelect:   "select[data-testid*='SearchForm-sortBy']",

		SectionForm:       "div[data-testid*='section']",
		TypeForm:          "div[data-testid*='type']",
		MultiSelectButton: "button[data-testid*='search-multiselect-button']",
		MultiSelectList:   "ul[data-testid*='multi-select-dropdown-list']",
		OptionItem:        "li",
		OptionLabel:       "span",

		DateForm:     "div[aria-label*='Date Range']",
		DateDropdown: "button[data-testid*='search-date-dropdown-a']",
		DateOption:   "li",
		StartDate:    "input[data-testid*='DateRange-startDate']",
		EndDate:      "input[data-testid*='DateRange-endDate']",

		ShowMore:   "button[data-testid*='search-show-more-button']",
		ResultList: "ol[data-testid*='search-results']",
		ResultItem: "li[data-testid*='search-bodega-result']",

		ResultDate:        "span",
		ResultTitle:       "a h4",
		ResultDescription: "a p",
		ResultImage:       "img",
	}
}

// LoadSelectors returns the default selectors with any keys present in the
// YAML file at path overriding them. An empty path yields the defaults.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sel, fmt.Errorf("read selectors file: %w", err)
	}
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return sel, fmt.Errorf("parse selectors file %s: %w", path, err)
	}
	return sel, nil
}
