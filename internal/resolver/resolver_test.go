package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cookiespots_backend/internal/geocode"
	"cookiespots_backend/platform/apperr"
	"cookiespots_backend/platform/logger"
)

type fakeGeocoder struct {
	geocodeResults map[string][]geocode.Result
	reverseResults map[string][]geocode.Result
	geocodeErr     error
	reverseErr     error
	geocodeCalls   int
	reverseCalls   int
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) ([]geocode.Result, error) {
	f.geocodeCalls++
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return f.geocodeResults[address], nil
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, lat, lng float64) ([]geocode.Result, error) {
	f.reverseCalls++
	if f.reverseErr != nil {
		return nil, f.reverseErr
	}
	return f.reverseResults[revKey(lat, lng)], nil
}

func revKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

func zipResult(code string) geocode.Result {
	return geocode.Result{
		AddressComponents: []geocode.AddressComponent{
			{LongName: code, Types: []string{"postal_code"}},
		},
	}
}

type searchCfg struct{ max int }

func (s searchCfg) GetSearchBatchSize() int { return 3 }
func (s searchCfg) GetMaxPostalCodes() int  { return s.max }

func newResolver(f *fakeGeocoder, max int) *Resolver {
	return New(f, searchCfg{max: max}, logger.New("test"))
}

func ptr(v float64) *float64 { return &v }

func TestResolve_MissingInputIsCallerError(t *testing.T) {
	r := newResolver(&fakeGeocoder{}, 8)
	_, err := r.Resolve(context.Background(), Query{})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request kind, got %v", err)
	}
}

func TestResolve_CoordinatesWinOverText(t *testing.T) {
	f := &fakeGeocoder{
		reverseResults: map[string][]geocode.Result{
			revKey(40.7506, -73.9971): {zipResult("10001")},
		},
	}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "Chicago", Lat: ptr(40.7506), Lng: ptr(-73.9971)})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(codes) != 1 || codes[0] != "10001" {
		t.Fatalf("expected [10001], got %v", codes)
	}
	if f.geocodeCalls != 0 {
		t.Fatalf("coordinates must not trigger forward geocoding, saw %d calls", f.geocodeCalls)
	}
}

func TestResolve_BareZipSkipsGeocoding(t *testing.T) {
	f := &fakeGeocoder{}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "10001"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(codes) != 1 || codes[0] != "10001" {
		t.Fatalf("expected [10001], got %v", codes)
	}
	if f.geocodeCalls != 0 || f.reverseCalls != 0 {
		t.Fatalf("bare zip must not call the geocoder (%d forward, %d reverse)", f.geocodeCalls, f.reverseCalls)
	}
}

func TestResolve_NeighborhoodExpansion(t *testing.T) {
	vp := &geocode.Viewport{
		Northeast: geocode.LatLng{Lat: 40.74, Lng: -73.98},
		Southwest: geocode.LatLng{Lat: 40.72, Lng: -74.00},
	}
	place := geocode.Result{
		Geometry: geocode.Geometry{
			Location: geocode.LatLng{Lat: 40.73, Lng: -73.99},
			Viewport: vp,
		},
		Types: []string{"neighborhood", "political"},
	}

	reverse := map[string][]geocode.Result{
		revKey(40.73, -73.99): {zipResult("10003")}, // center
		revKey(40.74, -73.98): {zipResult("10010")}, // NE corner
		revKey(40.74, -74.00): {zipResult("10011")}, // NW corner
		revKey(40.72, -73.98): {zipResult("10003")}, // SE corner duplicates center
		revKey(40.72, -74.00): {zipResult("10014")}, // SW corner
		// Edge midpoints return nothing usable.
	}

	f := &fakeGeocoder{
		geocodeResults: map[string][]geocode.Result{"Greenwich Village": {place}},
		reverseResults: reverse,
	}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "Greenwich Village"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	want := []string{"10003", "10010", "10011", "10014"}
	if len(codes) != len(want) {
		t.Fatalf("expected %v, got %v", want, codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
	if f.reverseCalls != 9 {
		t.Fatalf("expected 9 sample-point reverse geocodes, got %d", f.reverseCalls)
	}
}

func TestResolve_ForwardGeocodeFallback(t *testing.T) {
	// No viewport on the match, so expansion yields nothing and the forward
	// rule collects postal codes from every result.
	f := &fakeGeocoder{
		geocodeResults: map[string][]geocode.Result{
			"Springfield": {zipResult("62701"), zipResult("01103"), zipResult("62701")},
		},
	}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "Springfield"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(codes) != 2 || codes[0] != "62701" || codes[1] != "01103" {
		t.Fatalf("expected [62701 01103], got %v", codes)
	}
}

func TestResolve_StaticDefaultsByCity(t *testing.T) {
	f := &fakeGeocoder{geocodeErr: errors.New("quota exceeded"), reverseErr: errors.New("quota exceeded")}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "Brooklyn NY"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(codes) == 0 || codes[0] != "10001" {
		t.Fatalf("expected NYC default set, got %v", codes)
	}
}

func TestResolve_StaticDefaultsGeneric(t *testing.T) {
	f := &fakeGeocoder{geocodeErr: errors.New("quota exceeded")}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "Nowhere, XX"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(codes) != 5 {
		t.Fatalf("expected the generic 5-city default set, got %v", codes)
	}
}

func TestResolve_TruncatesToMax(t *testing.T) {
	results := make([]geocode.Result, 0, 12)
	for i := 0; i < 12; i++ {
		results = append(results, zipResult(fmt.Sprintf("100%02d", i)))
	}
	f := &fakeGeocoder{
		geocodeResults: map[string][]geocode.Result{"Manhattan": results},
	}
	r := newResolver(f, 8)

	codes, err := r.Resolve(context.Background(), Query{Text: "Manhattan"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(codes) != 8 {
		t.Fatalf("expected truncation to 8 codes, got %d", len(codes))
	}
}
