// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ssrn-abstracts/internal/pace"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// pageHTML renders a listing page with the given row IDs and an optional
// total page count.
func pageHTML(total int, ids ...string) string {
	var b bytes.Buffer
	b.WriteString("<html><body>")
	if total > 0 {
		fmt.Fprintf(&b, `<div class="pagination"><li class="total">%d</li></div>`, total)
	}
	for _, id := range ids {
		fmt.Fprintf(&b, `<div class="trow" id="div_%s"><div class="description">`+
			`<a class="title optClickTitle" href="papers.cfm?abstract_id=%s">Paper %s</a></div></div>`, id, id, id)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// newListingServer serves pages[n-1] for ?page=n. Pages past the end are
// empty; status overrides the response code for a page.
func newListingServer(t *testing.T, pages []string, status map[int]int, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if r.URL.Query().Get("code") != "J14" {
			http.Error(w, "bad code", http.StatusBadRequest)
			return
		}
		n, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if code, ok := status[n]; ok {
			w.WriteHeader(code)
			return
		}
		if n < 1 || n > len(pages) {
			fmt.Fprint(w, "<html><body><p>No papers found.</p></body></html>")
			return
		}
		fmt.Fprint(w, pages[n-1])
	}))
}

func overrideListingBase(tsURL string) func() {
	orig := listingBase
	listingBase = tsURL + "/sol3/jweljour_results.cfm"
	return func() { listingBase = orig }
}

// recordingPacer returns a pacer that records waits instead of sleeping.
func recordingPacer(waits *[]time.Duration) *pace.Pacer {
	p := pace.Fixed(time.Second)
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return p
}

func testListConfig() types.ListConfig {
	return types.ListConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "ssrn-abstracts-test/0.1"},
		JELCode:    "J14",
	}
}

func TestList_FollowsTotalPages(t *testing.T) {
	var calls int32
	ts := newListingServer(t, []string{
		pageHTML(2, "1", "2"),
		pageHTML(2, "3"),
		pageHTML(2, "4"), // beyond the reported total
	}, nil, &calls)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	var waits []time.Duration
	result, err := List(context.Background(), ts.Client(), testListConfig(), recordingPacer(&waits), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, paperIDs(result.Papers))
	assert.Equal(t, 2, result.Pages)
	assert.False(t, result.Partial)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Len(t, waits, 1, "one wait between two pages")
	assert.Equal(t, ts.URL+"/sol3/papers.cfm?abstract_id=1", result.Papers[0].URL)
}

func TestList_MaxPages(t *testing.T) {
	ts := newListingServer(t, []string{
		pageHTML(3, "1"),
		pageHTML(3, "2"),
		pageHTML(3, "3"),
	}, nil, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	cfg := testListConfig()
	cfg.MaxPages = 2
	var waits []time.Duration
	result, err := List(context.Background(), ts.Client(), cfg, recordingPacer(&waits), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, paperIDs(result.Papers))
}

func TestList_MaxPapers(t *testing.T) {
	ts := newListingServer(t, []string{
		pageHTML(3, "1", "2"),
		pageHTML(3, "3", "4"),
		pageHTML(3, "5", "6"),
	}, nil, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	cfg := testListConfig()
	cfg.MaxPapers = 3
	var waits []time.Duration
	result, err := List(context.Background(), ts.Client(), cfg, recordingPacer(&waits), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, paperIDs(result.Papers))
	assert.Equal(t, 2, result.Pages)
}

func TestList_NoPaginationStopsAtEmptyPage(t *testing.T) {
	ts := newListingServer(t, []string{
		pageHTML(0, "1"),
		pageHTML(0, "2"),
	}, nil, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	var waits []time.Duration
	result, err := List(context.Background(), ts.Client(), testListConfig(), recordingPacer(&waits), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, paperIDs(result.Papers))
	assert.Len(t, waits, 2)
}

func TestList_FirstPageFailureIsError(t *testing.T) {
	ts := newListingServer(t, []string{pageHTML(2, "1")}, map[int]int{1: http.StatusServiceUnavailable}, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	var waits []time.Duration
	_, err := List(context.Background(), ts.Client(), testListConfig(), recordingPacer(&waits), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestList_LaterPageFailureKeepsPartial(t *testing.T) {
	ts := newListingServer(t, []string{
		pageHTML(3, "1"),
		pageHTML(3, "2"),
		pageHTML(3, "3"),
	}, map[int]int{2: http.StatusTooManyRequests}, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	var buf bytes.Buffer
	var waits []time.Duration
	result, err := List(context.Background(), ts.Client(), testListConfig(), recordingPacer(&waits), zerolog.New(&buf))
	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, []string{"1"}, paperIDs(result.Papers))
	assert.Contains(t, buf.String(), "keeping papers collected so far")
}

func TestList_RerunIsIdempotent(t *testing.T) {
	ts := newListingServer(t, []string{
		pageHTML(2, "10", "11"),
		pageHTML(2, "12"),
	}, nil, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	var waits []time.Duration
	first, err := List(context.Background(), ts.Client(), testListConfig(), recordingPacer(&waits), zerolog.Nop())
	require.NoError(t, err)
	second, err := List(context.Background(), ts.Client(), testListConfig(), recordingPacer(&waits), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, first.Papers, second.Papers)
}

func TestList_RequiresJELCode(t *testing.T) {
	_, err := List(context.Background(), http.DefaultClient, types.ListConfig{}, nil, zerolog.Nop())
	require.Error(t, err)
}

func TestList_ContextCancelledDuringWait(t *testing.T) {
	ts := newListingServer(t, []string{pageHTML(2, "1"), pageHTML(2, "2")}, nil, nil)
	defer ts.Close()
	defer overrideListingBase(ts.URL)()

	ctx, cancel := context.WithCancel(context.Background())
	p := pace.Fixed(time.Second)
	p.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	result, err := List(ctx, ts.Client(), testListConfig(), p, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"1"}, paperIDs(result.Papers))
}

func TestPageURL(t *testing.T) {
	defer overrideListingBase("https://example.test")()
	assert.Equal(t, "https://example.test/sol3/jweljour_results.cfm?code=J14&page=2", PageURL("J14", 2))
}
