package filter

import (
	"reflect"
	"testing"

	"bairros-map/internal/attrs"
)

func rec(name, sector, zone, unit string, obs *string) attrs.Record {
	r := attrs.Record{Name: attrs.Of(name), Zone: attrs.Of(zone), Unit: attrs.Of(unit)}
	if sector != "" {
		r.Sector = attrs.Of(sector)
	}
	if obs != nil {
		r.Observation = attrs.Of(*obs)
	}
	return r
}

func strp(s string) *string { return &s }

func fixture() []attrs.Record {
	return []attrs.Record{
		rec("Barra", "1", "Sul", "UR-01", strp("leak;odor")),
		rec("Ondina", "1", "Sul", "UR-02", nil),
		rec("Itapuã", "2", "Norte", "UR-01", strp("pressure")),
		rec("Pituba", "", "Centro", "UR-03", strp("")),
		rec("Brotas", "3", "Centro", "UR-01", strp("odor")),
	}
}

func names(rs []attrs.Record) []string { return Names(rs) }

func TestWildcardReturnsEverythingInOrder(t *testing.T) {
	in := fixture()
	got := Filter(in, Criteria{})
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("wildcard must return full input in order")
	}
	if (Criteria{ObservationTags: []string{""}}).IsWildcard() {
		t.Fatalf("a non-empty tag list is never a wildcard")
	}
}

func TestBlankTagsAreLiteral(t *testing.T) {
	in := []attrs.Record{
		rec("Ondina", "1", "Sul", "UR-02", nil),
		rec("Barra", "1", "Sul", "UR-01", strp("odor")),
		rec("Pituba", "3", "Centro", "UR-03", strp("a b")),
	}
	cases := []struct {
		tags []string
		want []string
	}{
		{[]string{""}, []string{"Barra", "Pituba"}},
		{[]string{" "}, []string{"Pituba"}},
		{[]string{"", "odor"}, []string{"Barra", "Pituba"}},
	}
	for _, tc := range cases {
		got := Names(Filter(in, Criteria{ObservationTags: tc.tags}))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("tags %q: got %v want %v", tc.tags, got, tc.want)
		}
	}
}

func TestSingleFacets(t *testing.T) {
	cases := []struct {
		c    Criteria
		want []string
	}{
		{Criteria{Sector: "1"}, []string{"Barra", "Ondina"}},
		{Criteria{Zone: "Centro"}, []string{"Pituba", "Brotas"}},
		{Criteria{Unit: "UR-01"}, []string{"Barra", "Itapuã", "Brotas"}},
		{Criteria{Name: "Itapuã"}, []string{"Itapuã"}},
		{Criteria{Name: "itapuã"}, []string{}},
		{Criteria{Unit: "UR-01", Zone: "Centro"}, []string{"Brotas"}},
		{Criteria{Sector: "9"}, []string{}},
	}
	for _, c := range cases {
		got := names(Filter(fixture(), c.c))
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%+v: expected %v, got %v", c.c, c.want, got)
		}
	}
}

func TestMultiTagObservationMatch(t *testing.T) {
	r := []attrs.Record{rec("Barra", "1", "Sul", "UR-01", strp("leak;odor"))}
	if got := Filter(r, Criteria{ObservationTags: []string{"odor", "pressure"}}); len(got) != 1 {
		t.Fatalf("odor must match by substring")
	}
	if got := Filter(r, Criteria{ObservationTags: []string{"pressure"}}); len(got) != 0 {
		t.Fatalf("pressure alone must not match")
	}
}

func TestMissingObservationNeverMatchesTags(t *testing.T) {
	got := names(Filter(fixture(), Criteria{ObservationTags: []string{"odor"}}))
	if !reflect.DeepEqual(got, []string{"Barra", "Brotas"}) {
		t.Fatalf("unexpected: %v", got)
	}
	if (Criteria{ObservationTags: []string{"x"}}).Matches(attrs.Record{Name: attrs.Of("Ondina")}) {
		t.Fatalf("absent observation must not match")
	}
}

func TestNoMatchIsEmptyNotNil(t *testing.T) {
	got := Filter(fixture(), Criteria{Zone: "Oeste"})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
	if got := Filter(nil, Criteria{}); got == nil {
		t.Fatalf("nil input must still yield empty slice")
	}
}

// 结果中每条都满足全部谓词，被排除的至少违反一条
func TestFilterPartitionsInput(t *testing.T) {
	all := fixture()
	crits := []Criteria{
		{}, {Sector: "1"}, {Zone: "Sul", ObservationTags: []string{"odor"}},
		{Unit: "UR-01", ObservationTags: []string{"pressure", "leak"}}, {Name: "Pituba", ObservationTags: []string{"a"}},
	}
	for _, c := range crits {
		got := Filter(all, c)
		in := map[string]bool{}
		for _, r := range got {
			in[r.Name.Text] = true
			if !c.Matches(r) {
				t.Fatalf("%+v: %s returned but does not match", c, r.Name.Text)
			}
		}
		for _, r := range all {
			if !in[r.Name.Text] && c.Matches(r) {
				t.Fatalf("%+v: %s excluded but matches", c, r.Name.Text)
			}
		}
	}
}

func TestKeyIsStable(t *testing.T) {
	a := Criteria{Sector: "1", ObservationTags: []string{"odor"}}
	if a.Key() != (Criteria{Sector: "1", ObservationTags: []string{"odor"}}).Key() {
		t.Fatalf("equal criteria must share a key")
	}
	if (Criteria{}).Key() != (Criteria{ObservationTags: []string{}}).Key() {
		t.Fatalf("nil and empty tag lists are the same wildcard")
	}
	distinct := []Criteria{
		a,
		{Sector: "1", ObservationTags: []string{"odor", " "}},
		{Zone: "1"},
		{ObservationTags: []string{"a", "b"}},
		{ObservationTags: []string{"a\x01b"}},
		{ObservationTags: []string{"a\x00b"}},
		{Sector: "a", Zone: "b"},
		{Sector: "a\x00b"},
	}
	seen := map[string]int{}
	for i, c := range distinct {
		if j, ok := seen[c.Key()]; ok {
			t.Fatalf("criteria %d and %d share a key", j, i)
		}
		seen[c.Key()] = i
	}
}
