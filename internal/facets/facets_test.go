package facets

import (
	"reflect"
	"testing"

	"bairros-map/internal/attrs"
)

func TestPopulateExclusionRules(t *testing.T) {
	recs := []attrs.Record{
		{Name: attrs.Of("Barra"), Sector: attrs.Of("2"), Zone: attrs.Of("Sul"), Unit: attrs.Of("UR-01"), Observation: attrs.Of("odor")},
		{Name: attrs.Of("Ondina"), Sector: attrs.Of("   "), Zone: attrs.Of(""), Unit: attrs.Of("UR-01"), Observation: attrs.Of(" ")},
		{Name: attrs.Of("Água de Meninos"), Zone: attrs.Of("Sul"), Unit: attrs.Of("UR-02")},
		{Name: attrs.Of("Barra"), Sector: attrs.Of("10"), Zone: attrs.Of("Norte"), Observation: attrs.Of("odor")},
	}
	f := Populate(recs)
	if !reflect.DeepEqual(f.Sector, []string{"2", "10"}) {
		t.Fatalf("sector: %v", f.Sector)
	}
	if !reflect.DeepEqual(f.Zone, []string{"", "Norte", "Sul"}) {
		t.Fatalf("zone must keep empty value: %v", f.Zone)
	}
	if !reflect.DeepEqual(f.Unit, []string{"UR-01", "UR-02"}) {
		t.Fatalf("unit: %v", f.Unit)
	}
	if !reflect.DeepEqual(f.Name, []string{"Água de Meninos", "Barra", "Ondina"}) {
		t.Fatalf("name: %v", f.Name)
	}
	if !reflect.DeepEqual(f.Observation, []string{"odor"}) {
		t.Fatalf("obs: %v", f.Observation)
	}
}

func TestPopulateEmpty(t *testing.T) {
	f := Populate(nil)
	if f.Sector == nil || len(f.Name) != 0 {
		t.Fatalf("empty input must give empty, non-nil option lists: %+v", f)
	}
}
