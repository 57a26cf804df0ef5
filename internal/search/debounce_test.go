package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDelay = 20 * time.Millisecond

type recorder struct {
	mu     sync.Mutex
	routes []string
	ch     chan Route
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Route, 16)}
}

func (r *recorder) onChange(route Route) {
	r.mu.Lock()
	r.routes = append(r.routes, route.String())
	r.mu.Unlock()
	r.ch <- route
}

func (r *recorder) wait(t *testing.T) Route {
	t.Helper()
	select {
	case route := <-r.ch:
		return route
	case <-time.After(time.Second):
		t.Fatal("no route change")
		return Route{}
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case route := <-r.ch:
		t.Fatalf("unexpected route change to %s", route)
	case <-time.After(3 * testDelay):
	}
}

func mustRoute(t *testing.T, location string) Route {
	t.Helper()
	r, err := ParseRoute(location)
	require.NoError(t, err)
	return r
}

func newSync(t *testing.T, location string) (*Synchronizer, *recorder) {
	t.Helper()
	rec := newRecorder()
	opts := DefaultOptions()
	opts.Delay = testDelay
	s := New(mustRoute(t, location), opts, rec.onChange)
	t.Cleanup(s.Stop)
	return s, rec
}

func TestValueSeededFromRoute(t *testing.T) {
	s, _ := newSync(t, "/search?q=matrix")
	assert.Equal(t, "matrix", s.Value())

	s2, _ := newSync(t, "/")
	assert.Equal(t, "", s2.Value())
}

func TestTypingNavigatesToSearch(t *testing.T) {
	s, rec := newSync(t, "/?lang=pt")

	s.SetValue("  alien ")
	route := rec.wait(t)

	assert.Equal(t, "/search", route.Path)
	assert.Equal(t, "alien", route.Query.Get("q"))
	assert.Equal(t, "pt", route.Query.Get("lang"))
	assert.Equal(t, "/search?lang=pt&q=alien", s.Route().String())
	// the raw value is kept as typed
	assert.Equal(t, "  alien ", s.Value())
}

func TestBurstCommitsOnlyLastValue(t *testing.T) {
	s, rec := newSync(t, "/")

	for _, v := range []string{"s", "st", "sta", "star"} {
		s.SetValue(v)
		time.Sleep(testDelay / 4)
	}
	route := rec.wait(t)
	rec.none(t)

	assert.Equal(t, "star", route.Query.Get("q"))
	rec.mu.Lock()
	assert.Equal(t, []string{"/search?q=star"}, rec.routes)
	rec.mu.Unlock()
}

func TestSearchUpdatesQueryInPlace(t *testing.T) {
	s, rec := newSync(t, "/search?q=alien&page=2")

	s.SetValue("aliens")
	route := rec.wait(t)

	assert.Equal(t, "/search", route.Path)
	assert.Equal(t, "aliens", route.Query.Get("q"))
	assert.Equal(t, "2", route.Query.Get("page"))
}

func TestShortTermOnSearchGoesHome(t *testing.T) {
	s, rec := newSync(t, "/search?q=alien")

	s.SetValue("a")
	route := rec.wait(t)

	assert.Equal(t, "/", route.String())
}

func TestShortTermElsewhereDropsParam(t *testing.T) {
	s, rec := newSync(t, "/favorites?q=x&sort=title-asc")

	s.SetValue(" ")
	route := rec.wait(t)

	assert.Equal(t, "/favorites?sort=title-asc", route.String())
}

func TestNoChangeNoNotification(t *testing.T) {
	s, rec := newSync(t, "/")

	s.SetValue("x")
	rec.none(t)

	s2, rec2 := newSync(t, "/search?q=heat")
	s2.SetValue(" heat ")
	rec2.none(t)
	assert.Equal(t, "/search?q=heat", s2.Route().String())
}

func TestSyncAdoptsExternalRoute(t *testing.T) {
	s, rec := newSync(t, "/search?q=alien")

	s.Sync(mustRoute(t, "/search?q=heat"))
	assert.Equal(t, "heat", s.Value())
	rec.none(t)

	s.Sync(mustRoute(t, "/"))
	assert.Equal(t, "", s.Value())
	rec.none(t)
	assert.Equal(t, "/", s.Route().String())
}

func TestFlushCommitsImmediately(t *testing.T) {
	s, rec := newSync(t, "/")

	s.SetValue("jaws")
	s.Flush()

	select {
	case route := <-rec.ch:
		assert.Equal(t, "/search?q=jaws", route.String())
	default:
		t.Fatal("flush did not notify synchronously")
	}
	rec.none(t)
}

func TestStopCancelsPendingCommit(t *testing.T) {
	s, rec := newSync(t, "/")

	s.SetValue("jaws")
	s.Stop()
	rec.none(t)
	assert.Equal(t, "/", s.Route().String())
}

func TestMinLengthCountsRunes(t *testing.T) {
	s, rec := newSync(t, "/")

	s.SetValue("été")
	route := rec.wait(t)
	assert.Equal(t, "été", route.Query.Get("q"))

	s2, rec2 := newSync(t, "/")
	s2.SetValue("é")
	rec2.none(t)
}

func TestDefaultsFillZeroOptions(t *testing.T) {
	s := New(Route{Path: "/"}, Options{}, nil)
	defer s.Stop()

	assert.Equal(t, DefaultOptions(), s.opts)
	s.SetValue("go")
	s.Flush()
	assert.Equal(t, "/search?q=go", s.Route().String())
}

func TestParseRoute(t *testing.T) {
	r := mustRoute(t, "?q=a")
	assert.Equal(t, "/", r.Path)

	_, err := ParseRoute("%zz")
	assert.Error(t, err)
}
