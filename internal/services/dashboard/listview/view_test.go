package listview

import (
	stderrors "errors"
	"net/url"
	"slices"
	"testing"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
)

var fixedNow = time.Date(2025, 7, 10, 16, 0, 0, 0, time.UTC)

func loadFixtures(t *testing.T) *dataset.Provider {
	t.Helper()
	p, err := dataset.Load(dataset.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	return p
}

func driverIDs(items []dataset.Driver) []string {
	ids := make([]string, 0, len(items))
	for _, d := range items {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestStatusFilterKeepsOnlyMatchingAndPreservesTieOrder(t *testing.T) {
	t.Parallel()

	drivers := []dataset.Driver{
		{ID: "a", Name: "Ann", Status: dataset.DriverActive, SafetyScore: 80},
		{ID: "b", Name: "Ben", Status: dataset.DriverInactive, SafetyScore: 80},
		{ID: "c", Name: "Cal", Status: dataset.DriverActive, SafetyScore: 70},
		{ID: "d", Name: "Dee", Status: dataset.DriverActive, SafetyScore: 80},
		{ID: "e", Name: "Eve", Status: dataset.DriverActive, SafetyScore: 80},
	}
	view := Drivers()

	res, err := view.Run(drivers, Query{Category: "active", Sort: SortState{Key: "safetyScore", Direction: Asc}}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, d := range res.Items {
		if d.Status != dataset.DriverActive {
			t.Fatalf("unexpected status %q in result", d.Status)
		}
	}
	if got, want := driverIDs(res.Items), []string{"c", "a", "d", "e"}; !slices.Equal(got, want) {
		t.Fatalf("asc ids = %v, want %v", got, want)
	}

	res, err = view.Run(drivers, Query{Category: "active", Sort: SortState{Key: "safetyScore", Direction: Desc}}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := driverIDs(res.Items), []string{"a", "d", "e", "c"}; !slices.Equal(got, want) {
		t.Fatalf("desc ids = %v, want %v", got, want)
	}
	if res.Filtered != 4 || res.Total != 5 {
		t.Fatalf("filtered/total = %d/%d, want 4/5", res.Filtered, res.Total)
	}
}

func TestDistanceSortParsesNumbersAndTreatsUnparseableAsZero(t *testing.T) {
	t.Parallel()

	trips := []dataset.Trip{
		{ID: "suburban", Name: "Suburban Delivery", Distance: "15.7 km"},
		{ID: "hospital", Name: "Hospital Supply Run", Distance: "8.4 km"},
		{ID: "unknown", Name: "Unknown", Distance: "n/a"},
	}
	res, err := Trips().Run(trips, Query{Sort: SortState{Key: "distance", Direction: Asc}}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := []string{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID}
	want := []string{"unknown", "hospital", "suburban"}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestDateFilters(t *testing.T) {
	t.Parallel()

	alerts := loadFixtures(t).Alerts()
	view := FleetAlerts()

	tests := []struct {
		date DateRange
		want int
	}{
		{date: DateAll, want: 10},
		{date: DateToday, want: 7},
		{date: DateYesterday, want: 1},
		{date: DateWeek, want: 10},
	}
	for _, tc := range tests {
		res, err := view.Run(alerts, Query{Date: tc.date, PageSize: 50}, fixedNow)
		if err != nil {
			t.Fatalf("%s: %v", tc.date, err)
		}
		if res.Filtered != tc.want {
			t.Fatalf("%s: filtered = %d, want %d", tc.date, res.Filtered, tc.want)
		}
		if tc.date == DateToday {
			for _, a := range res.Items {
				if y, m, d := a.Timestamp.Date(); y != 2025 || m != time.July || d != 10 {
					t.Fatalf("today filter kept %v", a.Timestamp)
				}
			}
		}
	}
}

func TestWeekIncludesTrailingSevenDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	if !MatchDate(DateWeek, now.AddDate(0, 0, -7), now) {
		t.Fatal("expected exactly seven days ago to match")
	}
	if MatchDate(DateWeek, now.AddDate(0, 0, -7).Add(-time.Minute), now) {
		t.Fatal("expected older than seven days to be excluded")
	}
	if !MatchDate(DateWeek, now.Add(2*time.Hour), now) {
		t.Fatal("expected later today to match")
	}
	if !MatchDate(DateMonth, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), now) {
		t.Fatal("expected one month ago to match")
	}
	if MatchDate(DateMonth, time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), now) {
		t.Fatal("expected older than a month to be excluded")
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	t.Parallel()

	alerts := loadFixtures(t).Alerts()
	view := FleetAlerts()

	byName, err := view.Run(alerts, Query{Search: "sarah"}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if byName.Filtered != 2 {
		t.Fatalf("search by name = %d, want 2", byName.Filtered)
	}
	byPlate, err := view.Run(alerts, Query{Search: "jkl-7890"}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if byPlate.Filtered != 2 {
		t.Fatalf("search by plate = %d, want 2", byPlate.Filtered)
	}
	none, err := view.Run(alerts, Query{Search: "nobody"}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !none.Empty() || none.Total != 10 {
		t.Fatalf("expected empty result over 10 records, got %d/%d", none.Filtered, none.Total)
	}
}

func TestInitialSortsPerView(t *testing.T) {
	t.Parallel()

	p := loadFixtures(t)

	drivers, err := Drivers().Run(p.Drivers(), Query{}, fixedNow)
	if err != nil {
		t.Fatalf("drivers: %v", err)
	}
	if drivers.Items[0].Name != "David Wilson" {
		t.Fatalf("first driver by name asc = %q", drivers.Items[0].Name)
	}

	alerts, err := FleetAlerts().Run(p.Alerts(), Query{}, fixedNow)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if alerts.Items[0].ID != "9" {
		t.Fatalf("newest alert = %q, want 9", alerts.Items[0].ID)
	}

	trips, err := Trips().Run(p.Trips(), Query{}, fixedNow)
	if err != nil {
		t.Fatalf("trips: %v", err)
	}
	if trips.Items[0].ID != "1" {
		t.Fatalf("newest trip = %q, want 1", trips.Items[0].ID)
	}
}

func TestDurationSortUsesMinutesPattern(t *testing.T) {
	t.Parallel()

	alerts := []dataset.UserAlert{
		{ID: "seconds", Type: dataset.AlertDrowsy, Duration: "15 seconds"},
		{ID: "long", Type: dataset.AlertDrowsy, Duration: "12 min"},
		{ID: "short", Type: dataset.AlertDrowsy, Duration: "2 minutes"},
	}
	res, err := DriverAlerts().Run(alerts, Query{Sort: SortState{Key: "duration"}}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := []string{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID}
	if want := []string{"long", "short", "seconds"}; !slices.Equal(got, want) {
		t.Fatalf("duration desc = %v, want %v", got, want)
	}
}

func TestToggle(t *testing.T) {
	t.Parallel()

	drivers := Drivers()
	alerts := FleetAlerts()

	tests := []struct {
		name    string
		toggle  func(SortState, string) (SortState, error)
		current SortState
		column  string
		want    SortState
	}{
		{name: "same column flips", toggle: drivers.Toggle, current: SortState{Key: "name", Direction: Asc}, column: "name", want: SortState{Key: "name", Direction: Desc}},
		{name: "drivers new column asc", toggle: drivers.Toggle, current: SortState{Key: "name", Direction: Desc}, column: "safetyScore", want: SortState{Key: "safetyScore", Direction: Asc}},
		{name: "alerts new column desc", toggle: alerts.Toggle, current: SortState{Key: "timestamp", Direction: Asc}, column: "driverName", want: SortState{Key: "driverName", Direction: Desc}},
		{name: "alerts same column flips back", toggle: alerts.Toggle, current: SortState{Key: "type", Direction: Asc}, column: "type", want: SortState{Key: "type", Direction: Desc}},
	}
	for _, tc := range tests {
		got, err := tc.toggle(tc.current, tc.column)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}

	if _, err := drivers.Toggle(SortState{}, "email"); err == nil {
		t.Fatal("expected unknown column error")
	}
}

func TestNormalizeRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		field string
	}{
		{name: "unknown category", query: Query{Category: "sleepy"}, field: "category"},
		{name: "month not offered", query: Query{Date: DateMonth}, field: "date"},
		{name: "unknown sort", query: Query{Sort: SortState{Key: "location"}}, field: "sort"},
		{name: "bad direction", query: Query{Sort: SortState{Key: "type", Direction: "up"}}, field: "dir"},
	}
	for _, tc := range tests {
		_, err := FleetAlerts().Normalize(tc.query)
		if !stderrors.Is(err, apperrors.New(apperrors.CodeInvalidArgument, "")) {
			t.Fatalf("%s: err = %v, want invalid argument", tc.name, err)
		}
		if got := apperrors.MetadataOf(err)["field"]; got != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, got, tc.field)
		}
	}

	if _, err := Drivers().Normalize(Query{Date: DateToday}); err == nil {
		t.Fatal("expected drivers view to reject date filters")
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	q, err := Drivers().Normalize(Query{Sort: SortState{Key: "lastTrip"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.Category != CategoryAll || q.Date != DateAll || q.Page != 1 || q.PageSize != 10 {
		t.Fatalf("unexpected defaults %+v", q)
	}
	if q.Sort.Direction != Asc {
		t.Fatalf("lastTrip direction = %q, want asc", q.Sort.Direction)
	}
}

func TestPagination(t *testing.T) {
	t.Parallel()

	p := loadFixtures(t)
	res, err := FleetAlerts().Run(p.Alerts(), Query{PageSize: 4, Page: 3}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.PageCount != 3 || res.Page != 3 || len(res.Items) != 2 {
		t.Fatalf("page %d/%d with %d items", res.Page, res.PageCount, len(res.Items))
	}
	if res.Filtered != 10 {
		t.Fatalf("filtered = %d, want 10", res.Filtered)
	}
}

func TestFilterExpression(t *testing.T) {
	t.Parallel()

	p := loadFixtures(t)
	res, err := Drivers().Run(p.Drivers(), Query{Filter: `status = "active" AND safety_score >= 88`}, fixedNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := driverIDs(res.Items), []string{"4", "6", "2"}; !slices.Equal(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}

	_, err = Drivers().Run(p.Drivers(), Query{Filter: `nope = 1`}, fixedNow)
	if apperrors.HTTPStatus(err) != 400 {
		t.Fatalf("expected 400 for unknown filter field, got %v", err)
	}
}

func TestNumberIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		extract func(string) float64
		in      string
		want    float64
	}{
		{extract: Kilometers, in: "12.5 km", want: 12.5},
		{extract: Kilometers, in: "9km", want: 9},
		{extract: Kilometers, in: "far", want: 0},
		{extract: Minutes, in: "45 minutes", want: 45},
		{extract: Minutes, in: "15 seconds", want: 0},
	}
	for _, tc := range tests {
		if got := tc.extract(tc.in); got != tc.want {
			t.Fatalf("extract(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseQueryRoundTrip(t *testing.T) {
	t.Parallel()

	values := url.Values{
		"q":        {" smith "},
		"category": {"drowsy"},
		"date":     {"week"},
		"sort":     {"driverName"},
		"dir":      {"ASC"},
		"page":     {"2"},
		"filter":   {`type = "drowsy"`},
	}
	q := ParseQuery(values)
	if q.Search != "smith" || q.Category != "drowsy" || q.Date != DateWeek || q.Page != 2 {
		t.Fatalf("unexpected query %+v", q)
	}
	if q.Sort != (SortState{Key: "driverName", Direction: Asc}) {
		t.Fatalf("unexpected sort %+v", q.Sort)
	}
	encoded := q.Values()
	if encoded.Get("dir") != "asc" || encoded.Get("q") != "smith" || encoded.Get("page") != "2" {
		t.Fatalf("unexpected encoding %v", encoded)
	}
	if (Query{Category: CategoryAll, Date: DateAll, Page: 1}).Values().Encode() != "" {
		t.Fatal("expected bypass values to be omitted")
	}
}
