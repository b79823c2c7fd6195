package attrs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

const sample = `[
  {"NOME_BAIRR":"Barra","SETOR":12,"ZONA":"Sul","UR-1":"UR-01","RESERVATORIO":"R1","LOCALIDADE":null,"Obs":"vazamento;odor"},
  {"NOME_BAIRR":"Ondina","SETOR":"  ","ZONA":3.0,"UR-1":"UR-02"},
  {"NOME_BAIRR":"Barra","ZONA":"Norte","UR-1":"UR-09"}
]`

func TestDecodeNormalisesValues(t *testing.T) {
	recs, err := Decode([]byte(sample))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Sector != Of("12") {
		t.Fatalf("numeric sector: %+v", recs[0].Sector)
	}
	if recs[1].Zone != Of("3") {
		t.Fatalf("float zone: %+v", recs[1].Zone)
	}
	if recs[0].Locality.Present {
		t.Fatalf("null locality must be absent")
	}
	if recs[1].Observation.Present {
		t.Fatalf("missing Obs must be absent")
	}
	if !recs[1].Sector.Present || !recs[1].Sector.Blank() {
		t.Fatalf("whitespace sector must be present and blank: %+v", recs[1].Sector)
	}
}

func TestValueMarshal(t *testing.T) {
	b, err := json.Marshal(Record{Name: Of("Barra")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["NOME_BAIRR"] != "Barra" {
		t.Fatalf("name: %v", m["NOME_BAIRR"])
	}
	if v, ok := m["SETOR"]; !ok || v != nil {
		t.Fatalf("absent sector should be null, got %v", v)
	}
}

func TestDecodeBadJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"not":"an array"`)); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	if s.State() != Uninitialized || s.Records() != nil {
		t.Fatalf("fresh store must be empty")
	}
	if _, ok := s.FindByName("Barra"); ok {
		t.Fatalf("lookup before load must miss")
	}
	fetch := func(context.Context) ([]byte, error) { return []byte(sample), nil }
	if err := s.Load(context.Background(), FromJSON(fetch, true)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.State() != Ready {
		t.Fatalf("expected ready, got %s", s.State())
	}
	r, ok := s.FindByName("Barra")
	if !ok || r.Zone.Text != "Sul" {
		t.Fatalf("duplicate name must resolve to first record, got %+v", r)
	}
	if _, ok := s.FindByName("barra"); ok {
		t.Fatalf("lookup is exact")
	}
	if err := s.Load(context.Background(), FromJSON(fetch, false)); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded, got %v", err)
	}
}

func TestStoreLoadFailure(t *testing.T) {
	s := NewStore()
	fetch := func(context.Context) ([]byte, error) { return nil, errors.New("connection refused") }
	err := s.Load(context.Background(), FromJSON(fetch, false))
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if s.State() != Failed || !errors.Is(s.Err(), ErrLoad) {
		t.Fatalf("store must be failed with error, got %s %v", s.State(), s.Err())
	}
	if s.Records() != nil {
		t.Fatalf("failed store must not expose records")
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	if err := Validate([]byte(`[{"SETOR":"1"}]`)); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected schema failure, got %v", err)
	}
	if err := Validate([]byte(`[{"NOME_BAIRR":"Barra","Obs":["a"]}]`)); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected type failure, got %v", err)
	}
	if err := Validate([]byte(sample)); err != nil {
		t.Fatalf("sample must validate: %v", err)
	}
}

func TestStoreVersionTracksContent(t *testing.T) {
	load := func(recs []Record) *Store {
		s := NewStore()
		if err := s.Load(context.Background(), Static(recs)); err != nil {
			t.Fatal(err)
		}
		return s
	}
	if NewStore().Version() != "" {
		t.Fatalf("version must be empty before load")
	}
	a := load([]Record{{Name: Of("Barra"), Sector: Of("1")}})
	b := load([]Record{{Name: Of("Barra"), Sector: Of("1")}})
	c := load([]Record{{Name: Of("Barra"), Sector: Of("2")}})
	d := load([]Record{{Name: Of("Barra"), Sector: Of("")}})
	e := load([]Record{{Name: Of("Barra")}})
	if a.Version() == "" || a.Version() != b.Version() {
		t.Fatalf("same content must give the same version: %q %q", a.Version(), b.Version())
	}
	for _, other := range []*Store{c, d, e} {
		if other.Version() == a.Version() {
			t.Fatalf("different content must change the version")
		}
	}
	if d.Version() == e.Version() {
		t.Fatalf("present empty and absent values must differ")
	}
}
