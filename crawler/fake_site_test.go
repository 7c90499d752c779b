package crawler

import (
	"context"
	"fmt"
)

// fakeSite records the calls the controller makes and replays canned
// responses.
type fakeSite struct {
	calls []string

	overlayErr   error
	openErr      error
	submitErr    error
	sortOptions  []string
	filterLabels map[FilterKind][]string
	filterErr    error
	dateErr      error
	showMore     []showMoreStep
	results      []Result
	closed       bool

	chosen    []string
	dateRange *DateRange
}

type showMoreStep struct {
	more bool
	err  error
}

func (f *fakeSite) DismissOverlay(context.Context) error {
	f.calls = append(f.calls, "overlay")
	return f.overlayErr
}

func (f *fakeSite) OpenSearch(context.Context) error {
	f.calls = append(f.calls, "open")
	return f.openErr
}

func (f *fakeSite) SubmitSearch(_ context.Context, phrase string) error {
	f.calls = append(f.calls, "submit:"+phrase)
	return f.submitErr
}

func (f *fakeSite) SortOptions(context.Context) ([]Option, error) {
	f.calls = append(f.calls, "sort")
	options := make([]Option, 0, len(f.sortOptions))
	for _, v := range f.sortOptions {
		options = append(options, Option{Label: v, Value: v, Choose: f.choose("sort=" + v)})
	}
	return options, nil
}

func (f *fakeSite) FilterOptions(_ context.Context, kind FilterKind) ([]Option, error) {
	f.calls = append(f.calls, "filter:"+kind.String())
	if f.filterErr != nil {
		return nil, f.filterErr
	}
	var options []Option
	for _, label := range f.filterLabels[kind] {
		options = append(options, Option{Label: label, Choose: f.choose(fmt.Sprintf("%s=%s", kind, label))})
	}
	return options, nil
}

func (f *fakeSite) choose(name string) func(context.Context) error {
	return func(context.Context) error {
		f.chosen = append(f.chosen, name)
		return nil
	}
}

func (f *fakeSite) SetDateRange(_ context.Context, r DateRange) error {
	f.calls = append(f.calls, "date")
	f.dateRange = &r
	return f.dateErr
}

func (f *fakeSite) ShowMore(context.Context) (bool, error) {
	f.calls = append(f.calls, "more")
	if len(f.showMore) == 0 {
		return false, nil
	}
	step := f.showMore[0]
	f.showMore = f.showMore[1:]
	return step.more, step.err
}

func (f *fakeSite) Results(context.Context) ([]Result, error) {
	f.calls = append(f.calls, "results")
	return f.results, nil
}

func (f *fakeSite) Close() error {
	f.closed = true
	return nil
}

// fakeResult serves fixed texts and an optional thumbnail.
type fakeResult struct {
	texts    map[Field]string
	textErrs map[Field]error
	src      string
	png      []byte
	imageErr error
}

func (r *fakeResult) Text(_ context.Context, field Field) (string, error) {
	if err := r.textErrs[field]; err != nil {
		return "", err
	}
	return r.texts[field], nil
}

func (r *fakeResult) Image(context.Context) (string, []byte, error) {
	if r.imageErr != nil {
		return "", nil, r.imageErr
	}
	return r.src, r.png, nil
}

type fakeDriver struct {
	site    *fakeSite
	openErr error
}

func (d *fakeDriver) Open(context.Context, string) (Site, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.site, nil
}
