package filter

import "testing"

var driverFields = Fields{
	"name":         FieldString,
	"status":       FieldString,
	"safety_score": FieldInt,
	"distance_km":  FieldFloat,
	"last_trip":    FieldTimestamp,
}

func driverResolver(name string) (any, bool) {
	switch name {
	case "name":
		return "Sarah Johnson", true
	case "status":
		return "active", true
	case "safety_score":
		return 92, true
	case "distance_km":
		return 12.5, true
	case "last_trip":
		return "2025-07-10T14:15:00Z", true
	default:
		return nil, false
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  string
		fields  Fields
		wantNil bool
		wantErr bool
	}{
		{name: "empty", filter: "", fields: driverFields, wantNil: true},
		{name: "whitespace", filter: "   ", fields: driverFields, wantNil: true},
		{name: "string equality", filter: `status = "active"`, fields: driverFields},
		{name: "int comparison", filter: "safety_score >= 80", fields: driverFields},
		{name: "invalid syntax", filter: "!!!invalid", fields: driverFields, wantErr: true},
		{name: "unsupported field type", filter: `x = "foo"`, fields: Fields{"x": FieldType("complex")}, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e, err := Parse(tc.filter, tc.fields)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (e == nil) != tc.wantNil {
				t.Fatalf("expr nil = %v, want %v", e == nil, tc.wantNil)
			}
		})
	}
}

func TestMatcherMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filter string
		want   bool
	}{
		{filter: `status = "active"`, want: true},
		{filter: `status != "active"`, want: false},
		{filter: `safety_score >= 92`, want: true},
		{filter: `safety_score > 92`, want: false},
		{filter: `safety_score < 80 OR status = "active"`, want: true},
		{filter: `status = "suspended" AND safety_score >= 0`, want: false},
		{filter: `distance_km > 10.5`, want: true},
		{filter: `last_trip >= "2025-07-10T00:00:00Z"`, want: true},
		{filter: `last_trip < "2025-07-09T00:00:00Z"`, want: false},
		{filter: `NOT status = "active"`, want: false},
		{filter: `name:"johnson"`, want: true},
		{filter: `name:"smith"`, want: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.filter, func(t *testing.T) {
			t.Parallel()
			m, err := Compile(tc.filter, driverFields)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if m.Empty() {
				t.Fatal("expected non-empty matcher")
			}
			got, err := m.Match(driverResolver)
			if err != nil {
				t.Fatalf("match: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Match() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEmptyMatcherAcceptsEverything(t *testing.T) {
	t.Parallel()

	m, err := Compile("", driverFields)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ok, err := m.Match(func(string) (any, bool) { return nil, false })
	if err != nil || !ok {
		t.Fatalf("Match() = %v, %v; want true, nil", ok, err)
	}
}

func TestMatchUnknownFieldErrors(t *testing.T) {
	t.Parallel()

	m, err := Compile(`name = "x"`, driverFields)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := m.Match(func(string) (any, bool) { return nil, false }); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestCompareValuesTypeMismatch(t *testing.T) {
	t.Parallel()

	if _, err := compareValues("a", int64(1)); err == nil {
		t.Fatal("expected string vs int mismatch")
	}
	if _, err := compareValues(int64(1), "a"); err == nil {
		t.Fatal("expected number vs string mismatch")
	}
	if _, err := compareValues(true, "a"); err == nil {
		t.Fatal("expected bool vs string mismatch")
	}
	if cmp, err := compareValues(3, 2.5); err != nil || cmp != 1 {
		t.Fatalf("compareValues(3, 2.5) = %d, %v", cmp, err)
	}
}
