package search

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/KKK12142/myskyapp/catalog"
	"github.com/KKK12142/myskyapp/ephem"
	"github.com/KKK12142/myskyapp/model"
)

var (
	testObserver = model.Observer{LatitudeDeg: 37.5665, LongitudeDeg: 126.978}
	testTime     = time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
)

func storeFromJSON(t *testing.T, raw string) *catalog.Store {
	t.Helper()
	store, err := catalog.Load(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return store
}

func newTestEngine(t *testing.T, raw string) *Engine {
	t.Helper()
	return NewEngine(storeFromJSON(t, raw), ephem.NewService(nil, nil), nil, nil)
}

const searchCatalog = `[
  {"id": "s1", "proper": "Sirius", "name": "Alp CMa", "ra": 6.7525, "dec": -16.7161, "mag": -1.46, "ci": null, "spect": null},
  {"id": "s2", "proper": "Sunflower", "name": "Tst 1", "ra": 1.0, "dec": 1.0, "mag": 2.0, "ci": null, "spect": null},
  {"id": "s3", "proper": "Moon", "name": "Tst 2", "ra": 2.0, "dec": 2.0, "mag": 3.0, "ci": null, "spect": null},
  {"id": "s4", "proper": "Sundial", "name": "Tst 3", "ra": 3.0, "dec": 3.0, "mag": null, "ci": null, "spect": null}
]`

func TestQueryTooShortOrNoObserver(t *testing.T) {
	e := newTestEngine(t, searchCatalog)
	ctx := context.Background()

	if got := e.Query(ctx, "s", &testObserver, testTime); got != nil {
		t.Error("1-char query should yield nothing")
	}
	if got := e.Query(ctx, "  s  ", &testObserver, testTime); got != nil {
		t.Error("whitespace-padded 1-char query should yield nothing")
	}
	if got := e.Query(ctx, "sirius", nil, testTime); got != nil {
		t.Error("query without observer should yield nothing")
	}
}

func TestQueryMatchesProperAndCatalogNames(t *testing.T) {
	e := newTestEngine(t, searchCatalog)
	ctx := context.Background()

	byProper := e.Query(ctx, "SIRI", &testObserver, testTime)
	if len(byProper) != 1 || byProper[0].ProperName != "Sirius" {
		t.Fatalf("query SIRI = %+v, want just Sirius", byProper)
	}

	byCatalog := e.Query(ctx, "alp cma", &testObserver, testTime)
	if len(byCatalog) != 1 || byCatalog[0].ProperName != "Sirius" {
		t.Fatalf("query by catalog name = %+v, want just Sirius", byCatalog)
	}
}

func TestQueryMatchesLocalizedBodyNames(t *testing.T) {
	e := newTestEngine(t, searchCatalog)

	got := e.Query(context.Background(), "수성", &testObserver, testTime)
	if len(got) != 1 {
		t.Fatalf("query 수성 returned %d results, want 1", len(got))
	}
	if got[0].ID != "mercury" || !got[0].IsSolarBody {
		t.Errorf("query 수성 = %+v, want live mercury", got[0])
	}
	if got[0].Position.RAHours < 0 || got[0].Position.RAHours >= 24 {
		t.Errorf("mercury RA %v outside [0,24)", got[0].Position.RAHours)
	}
}

func TestQueryRanksByBrightnessWithMissingMagnitudesLast(t *testing.T) {
	e := newTestEngine(t, searchCatalog)

	// "sun" hits the Sun (canonical name), Sunflower, and Sundial (no mag).
	got := e.Query(context.Background(), "sun", &testObserver, testTime)
	if len(got) != 3 {
		t.Fatalf("query sun returned %d results, want 3", len(got))
	}
	if got[0].ID != "sun" {
		t.Errorf("brightest first: got %q, want the sun", got[0].ID)
	}
	if got[1].ProperName != "Sunflower" {
		t.Errorf("second = %q, want Sunflower", got[1].ProperName)
	}
	if got[2].ProperName != "Sundial" {
		t.Errorf("missing magnitude should rank last, got %q", got[2].ProperName)
	}
}

func TestQueryDeduplicatesBodyNamedStars(t *testing.T) {
	e := newTestEngine(t, searchCatalog)

	got := e.Query(context.Background(), "moon", &testObserver, testTime)
	if len(got) != 1 {
		t.Fatalf("query moon returned %d results, want 1", len(got))
	}
	if !got[0].IsSolarBody {
		t.Error("the live body should win the name collision")
	}
}

func TestQueryBodyNamedStarNeverLeaksThroughOtherField(t *testing.T) {
	// The star's proper name belongs to a solar body; matching its catalog
	// designation must not smuggle it into the results.
	e := newTestEngine(t, `[
	  {"id": "c1", "proper": "Mars", "name": "HD 99999", "ra": 5.0, "dec": 5.0, "mag": 6.1, "ci": null, "spect": null}
	]`)

	got := e.Query(context.Background(), "hd 99", &testObserver, testTime)
	if len(got) != 0 {
		t.Fatalf("query hd 99 = %+v, want nothing", got)
	}
}

func TestQueryTruncatesToFifteen(t *testing.T) {
	var rows []string
	for i := 0; i < 30; i++ {
		rows = append(rows, fmt.Sprintf(
			`{"id": "m%02d", "proper": "Cluster %02d", "name": null, "ra": 1.0, "dec": 1.0, "mag": %d.0, "ci": null, "spect": null}`,
			i, i, i%9))
	}
	e := newTestEngine(t, "["+strings.Join(rows, ",")+"]")

	got := e.Query(context.Background(), "cluster", &testObserver, testTime)
	if len(got) != 15 {
		t.Fatalf("query cluster returned %d results, want 15", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Magnitude > got[i].Magnitude {
			t.Fatalf("results not sorted by magnitude at %d: %v > %v", i, got[i-1].Magnitude, got[i].Magnitude)
		}
	}
}

func TestQueryWithNilCatalogStillFindsBodies(t *testing.T) {
	e := NewEngine(nil, ephem.NewService(nil, nil), nil, nil)

	got := e.Query(context.Background(), "mars", &testObserver, testTime)
	if len(got) != 1 || got[0].ID != "mars" {
		t.Fatalf("query mars with nil store = %+v, want live mars", got)
	}
}
