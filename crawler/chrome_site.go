package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newscrawl/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
)

const visibleScript = `(() => {
	const el = document.querySelector(%q);
	if (!el) return false;
	const style = window.getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	return style.display !== "none" && style.visibility !== "hidden" && rect.width > 0 && rect.height > 0;
})()`

const changeScript = `(() => {
	const el = document.querySelector(%q);
	el.dispatchEvent(new Event("input", { bubbles: true }));
	el.dispatchEvent(new Event("change", { bubbles: true }));
	return true;
})()`

// chromeSite is the chromedp implementation of Site. Every action runs on
// the browser context bounded by the element timeout.
type chromeSite struct {
	ctx     context.Context
	cancel  context.CancelFunc
	sel     config.Selectors
	timeout time.Duration
	pause   time.Duration
	logger  *zap.Logger
}

func (s *chromeSite) run(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(opCtx, actions...)
}

// classify maps chromedp failures onto the Site error taxonomy. onTimeout
// is the sentinel for an action that ran out of time: ErrNotFound for
// lookups, ErrStale for actions on a node that was already found.
func classify(ctx context.Context, err error, what string, onTimeout error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var cdpErr *cdproto.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", onTimeout, what)
	case errors.Is(err, chromedp.ErrInvalidBoxModel):
		return fmt.Errorf("%w: %s: %v", ErrTransient, what, err)
	case errors.As(err, &cdpErr) && isStaleMessage(cdpErr.Message):
		return fmt.Errorf("%w: %s: %v", ErrStale, what, err)
	case errors.As(err, &cdpErr) && strings.Contains(strings.ToLower(cdpErr.Message), "box model"):
		return fmt.Errorf("%w: %s: %v", ErrTransient, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isStaleMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "node with given id") ||
		strings.Contains(msg, "does not belong to the document") ||
		strings.Contains(msg, "node is detached")
}

// htmlText returns the whitespace-normalised text of an HTML fragment.
func htmlText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// waitNode waits up to the element timeout for sel under parent (the
// document when parent is nil).
func (s *chromeSite) waitNode(ctx context.Context, sel string, parent *cdp.Node) (*cdp.Node, error) {
	var nodes []*cdp.Node
	opts := []chromedp.QueryOption{chromedp.ByQuery}
	if parent != nil {
		opts = append(opts, chromedp.FromNode(parent))
	}
	if err := s.run(ctx, chromedp.Nodes(sel, &nodes, opts...)); err != nil {
		return nil, classify(ctx, err, sel, ErrNotFound)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return nodes[0], nil
}

// childNodes returns the nodes currently matching sel under parent without
// waiting for more to appear.
func (s *chromeSite) childNodes(ctx context.Context, sel string, parent *cdp.Node) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(sel, &nodes,
		chromedp.ByQueryAll,
		chromedp.FromNode(parent),
		chromedp.AtLeast(0),
	))
	if err != nil {
		return nil, classify(ctx, err, sel, ErrStale)
	}
	return nodes, nil
}

func (s *chromeSite) childNode(ctx context.Context, sel string, parent *cdp.Node) (*cdp.Node, error) {
	nodes, err := s.childNodes(ctx, sel, parent)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return nodes[0], nil
}

func (s *chromeSite) click(ctx context.Context, n *cdp.Node) error {
	err := s.run(ctx, chromedp.MouseClickNode(n))
	return classify(ctx, err, "click "+n.LocalName, ErrStale)
}

func (s *chromeSite) nodeText(ctx context.Context, n *cdp.Node) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML([]cdp.NodeID{n.NodeID}, &html, chromedp.ByNodeID))
	if err != nil {
		return "", classify(ctx, err, "text of "+n.LocalName, ErrStale)
	}
	return htmlText(html)
}

func (s *chromeSite) DismissOverlay(ctx context.Context) error {
	button, err := s.waitNode(ctx, s.sel.Overlay, nil)
	if err != nil {
		return err
	}
	return s.click(ctx, button)
}

func (s *chromeSite) OpenSearch(ctx context.Context) error {
	button, err := s.waitNode(ctx, s.sel.SearchButton, nil)
	if err != nil {
		return err
	}
	return s.click(ctx, button)
}

func (s *chromeSite) SubmitSearch(ctx context.Context, phrase string) error {
	err := s.run(ctx,
		chromedp.SendKeys(s.sel.SearchInput, phrase, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.SendKeys(s.sel.SearchInput, kb.Enter, chromedp.ByQuery),
	)
	return classify(ctx, err, s.sel.SearchInput, ErrNotFound)
}

func (s *chromeSite) SortOptions(ctx context.Context) ([]Option, error) {
	selectNode, err := s.waitNode(ctx, s.sel.SortSelect, nil)
	if err != nil {
		return nil, err
	}
	nodes, err := s.childNodes(ctx, "option", selectNode)
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, len(nodes))
	for _, n := range nodes {
		value := n.AttributeValue("value")
		options = append(options, Option{
			Label: value,
			Value: value,
			Choose: func(ctx context.Context) error {
				return s.chooseSort(ctx, value)
			},
		})
	}
	return options, nil
}

func (s *chromeSite) chooseSort(ctx context.Context, value string) error {
	var ok bool
	err := s.run(ctx,
		chromedp.SetValue(s.sel.SortSelect, value, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(changeScript, s.sel.SortSelect), &ok),
	)
	return classify(ctx, err, s.sel.SortSelect, ErrNotFound)
}

func (s *chromeSite) FilterOptions(ctx context.Context, kind FilterKind) ([]Option, error) {
	formSel := s.sel.SectionForm
	if kind == FilterType {
		formSel = s.sel.TypeForm
	}

	form, err := s.waitNode(ctx, formSel, nil)
	if err != nil {
		return nil, err
	}
	dropdown, err := s.waitNode(ctx, s.sel.MultiSelectButton, form)
	if err != nil {
		return nil, err
	}
	if err := s.click(ctx, dropdown); err != nil {
		return nil, err
	}
	list, err := s.waitNode(ctx, s.sel.MultiSelectList, form)
	if err != nil {
		return nil, err
	}
	items, err := s.childNodes(ctx, s.sel.OptionItem, list)
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, len(items))
	for _, item := range items {
		label, err := s.childNode(ctx, s.sel.OptionLabel, item)
		if err != nil {
			return nil, err
		}
		text, err := s.nodeText(ctx, label)
		if err != nil {
			return nil, err
		}
		options = append(options, Option{
			Label: text,
			Value: item.AttributeValue("value"),
			Choose: func(ctx context.Context) error {
				return s.click(ctx, label)
			},
		})
	}

	s.logger.Debug("filter options listed",
		zap.Stringer("filter", kind),
		zap.Int("options", len(options)))
	return options, nil
}

// SetDateRange opens the date dropdown, picks its last entry (specific
// dates) and types the range.
func (s *chromeSite) SetDateRange(ctx context.Context, r DateRange) error {
	form, err := s.waitNode(ctx, s.sel.DateForm, nil)
	if err != nil {
		return err
	}
	dropdown, err := s.waitNode(ctx, s.sel.DateDropdown, form)
	if err != nil {
		return err
	}
	if err := s.click(ctx, dropdown); err != nil {
		return err
	}

	if _, err := s.waitNode(ctx, s.sel.DateOption, form); err != nil {
		return err
	}
	entries, err := s.childNodes(ctx, s.sel.DateOption, form)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, s.sel.DateOption)
	}
	if err := s.click(ctx, entries[len(entries)-1]); err != nil {
		return err
	}

	if r.Start != "" {
		err := s.run(ctx, chromedp.SendKeys(s.sel.StartDate, r.Start, chromedp.ByQuery, chromedp.FromNode(form)))
		if err != nil {
			return classify(ctx, err, s.sel.StartDate, ErrNotFound)
		}
	}
	err = s.run(ctx, chromedp.SendKeys(s.sel.EndDate, r.End+kb.Enter, chromedp.ByQuery, chromedp.FromNode(form)))
	return classify(ctx, err, s.sel.EndDate, ErrNotFound)
}

func (s *chromeSite) ShowMore(ctx context.Context) (bool, error) {
	var visible bool
	err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(visibleScript, s.sel.ShowMore), &visible))
	if err != nil {
		return false, classify(ctx, err, s.sel.ShowMore, ErrNotFound)
	}
	if !visible {
		return false, nil
	}

	button, err := s.waitNode(ctx, s.sel.ShowMore, nil)
	if err != nil {
		return false, err
	}
	err = s.run(ctx,
		chromedp.ScrollIntoView([]cdp.NodeID{button.NodeID}, chromedp.ByNodeID),
		chromedp.MouseClickNode(button),
	)
	if err != nil {
		return false, classify(ctx, err, s.sel.ShowMore, ErrStale)
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(s.pause):
	}
	return true, nil
}

// Results waits for the result list. A list that never shows up is treated
// as an empty search.
func (s *chromeSite) Results(ctx context.Context) ([]Result, error) {
	list, err := s.waitNode(ctx, s.sel.ResultList, nil)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("result list not found", zap.String("selector", s.sel.ResultList))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	nodes, err := s.childNodes(ctx, s.sel.ResultItem, list)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(nodes))
	for _, n := range nodes {
		results = append(results, &chromeResult{site: s, node: n})
	}
	return results, nil
}

func (s *chromeSite) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

type chromeResult struct {
	site *chromeSite
	node *cdp.Node
}

func (r *chromeResult) Text(ctx context.Context, field Field) (string, error) {
	sel := r.site.sel.ResultDate
	switch field {
	case FieldTitle:
		sel = r.site.sel.ResultTitle
	case FieldDescription:
		sel = r.site.sel.ResultDescription
	}

	n, err := r.site.childNode(ctx, sel, r.node)
	if err != nil {
		return "", err
	}
	return r.site.nodeText(ctx, n)
}

func (r *chromeResult) Image(ctx context.Context) (string, []byte, error) {
	img, err := r.site.childNode(ctx, r.site.sel.ResultImage, r.node)
	if err != nil {
		return "", nil, err
	}

	var buf []byte
	err = r.site.run(ctx, chromedp.Screenshot([]cdp.NodeID{img.NodeID}, &buf, chromedp.ByNodeID))
	if err != nil {
		return "", nil, classify(ctx, err, "screenshot "+r.site.sel.ResultImage, ErrStale)
	}
	return img.AttributeValue("src"), buf, nil
}

var (
	_ Site   = (*chromeSite)(nil)
	_ Result = (*chromeResult)(nil)
)
