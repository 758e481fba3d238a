package crs

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveIDRoundTrip(t *testing.T) {
	for _, datum := range []Datum{DatumGDA1994, DatumGDA2020} {
		for zone := MinZone; zone <= MaxZone; zone++ {
			id, err := ResolveID(datum, zone)
			if err != nil {
				t.Fatalf("ResolveID(%s, %d) failed: %v", datum, zone, err)
			}
			gotDatum, gotProj, gotZone, ok := ResolveZone(id)
			if !ok {
				t.Fatalf("ResolveZone(%d) not found", id)
			}
			if gotDatum != datum || gotProj != ProjectionMGA || gotZone != zone {
				t.Errorf("ResolveZone(%d) = (%s, %s, %d), want (%s, MGA, %d)", id, gotDatum, gotProj, gotZone, datum, zone)
			}
		}
	}
}

func TestResolveIDKnownValues(t *testing.T) {
	tests := []struct {
		datum Datum
		zone  int
		want  int
	}{
		{DatumGDA1994, 50, 28350},
		{DatumGDA1994, 56, 28356},
		{DatumGDA2020, 50, 7850},
		{DatumGDA2020, 55, 7855},
	}
	for _, tt := range tests {
		got, err := ResolveID(tt.datum, tt.zone)
		if err != nil {
			t.Fatalf("ResolveID(%s, %d) failed: %v", tt.datum, tt.zone, err)
		}
		if got != tt.want {
			t.Errorf("ResolveID(%s, %d) = %d, want %d", tt.datum, tt.zone, got, tt.want)
		}
	}
}

func TestResolveIDInvalidZone(t *testing.T) {
	for _, zone := range []int{0, 49, 57, -1, 100} {
		if _, err := ResolveID(DatumGDA2020, zone); !errors.Is(err, ErrInvalidZone) {
			t.Errorf("ResolveID(GDA2020, %d) = %v, want ErrInvalidZone", zone, err)
		}
	}
}

func TestGeographicID(t *testing.T) {
	tests := []struct {
		datum Datum
		want  int
	}{
		{DatumGDA1994, 4283},
		{DatumGDA2020, 7844},
	}
	for _, tt := range tests {
		got, err := GeographicID(tt.datum)
		if err != nil {
			t.Fatalf("GeographicID(%s) failed: %v", tt.datum, err)
		}
		if got != tt.want {
			t.Errorf("GeographicID(%s) = %d, want %d", tt.datum, got, tt.want)
		}
	}
	if _, err := GeographicID(DatumUnknown); !errors.Is(err, ErrUnknownDatum) {
		t.Errorf("GeographicID(Unknown) = %v, want ErrUnknownDatum", err)
	}
}

func TestParseDatum(t *testing.T) {
	tests := []struct {
		input   string
		want    Datum
		wantErr bool
	}{
		{"GDA1994", DatumGDA1994, false},
		{"GDA94", DatumGDA1994, false},
		{"MGA1994", DatumGDA1994, false},
		{"GDA2020", DatumGDA2020, false},
		{"MGA2020", DatumGDA2020, false},
		{"WGS84", DatumUnknown, true},
		{"", DatumUnknown, true},
	}
	for _, tt := range tests {
		got, err := ParseDatum(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDatum(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseDatum(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestWKT(t *testing.T) {
	wkt, ok := WKT(28355)
	if !ok {
		t.Fatal("WKT(28355) not supported")
	}
	for _, fragment := range []string{
		`PROJCS["GDA94 / MGA zone 55"`,
		`PARAMETER["central_meridian",147]`,
		`AUTHORITY["EPSG","28355"]`,
	} {
		if !strings.Contains(wkt, fragment) {
			t.Errorf("WKT(28355) missing %q in %q", fragment, wkt)
		}
	}

	wkt, ok = WKT(7844)
	if !ok {
		t.Fatal("WKT(7844) not supported")
	}
	if !strings.Contains(wkt, `GEOGCS["GDA2020"`) || !strings.Contains(wkt, `AUTHORITY["EPSG","7844"]`) {
		t.Errorf("WKT(7844) = %q, want GDA2020 geographic with authority", wkt)
	}

	if _, ok := WKT(4326); ok {
		t.Error("WKT(4326) should not be supported")
	}
}
