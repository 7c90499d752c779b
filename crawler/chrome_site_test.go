package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLText(t *testing.T) {
	testCases := []struct {
		name     string
		fragment string
		expected string
	}{
		{"Heading", "<h4>Iniesta retires</h4>", "Iniesta retires"},
		{"NestedCountSpan", "<span>Sports<span>120</span></span>", "Sports120"},
		{"Whitespace", "<p>\n  Iniesta\n\t scored   twice </p>", "Iniesta scored twice"},
		{"Entities", "<p>Barça &amp; friends</p>", "Barça & friends"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := htmlText(tc.fragment)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		err       error
		onTimeout error
		target    error
	}{
		{"TimeoutOnLookup", context.DeadlineExceeded, ErrNotFound, ErrNotFound},
		{"TimeoutOnHandle", context.DeadlineExceeded, ErrStale, ErrStale},
		{"BoxModel", chromedp.ErrInvalidBoxModel, ErrNotFound, ErrTransient},
		{"DetachedNode", &cdproto.Error{Code: -32000, Message: "Could not find node with given id"}, ErrNotFound, ErrStale},
		{"NoBoxModel", &cdproto.Error{Code: -32000, Message: "Could not compute box model."}, ErrNotFound, ErrTransient},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(ctx, fmt.Errorf("run: %w", tc.err), "button", tc.onTimeout)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestClassify_Passthrough(t *testing.T) {
	assert.NoError(t, classify(context.Background(), nil, "button", ErrNotFound))

	boom := errors.New("boom")
	err := classify(context.Background(), boom, "button", ErrNotFound)
	assert.ErrorIs(t, err, boom)
	assert.False(t, absent(err))
}

func TestClassify_CancelledContextWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := classify(ctx, context.DeadlineExceeded, "button", ErrNotFound)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, absent(err))
}
