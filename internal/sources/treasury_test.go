package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const treasuryCSV = `timestamp,btc_mining_companies,countries,defi,etfs,private_companies,public_companies,other
2025-06-08,100,200,10,1000,50,600,99999
2025-06-01,90,200,10,950,50,500,99999
2025-05-25,,200,10,900,50,400,99999
`

func TestParseTreasuryCSV(t *testing.T) {
	series, err := parseTreasuryCSV([]byte(treasuryCSV))
	if err != nil {
		t.Fatalf("parseTreasuryCSV error: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}
	// oldest first, blank cell counted as zero, untracked column ignored
	want := []float64{1560, 1800, 1960}
	for i, w := range want {
		if series[i].Value != w {
			t.Errorf("series[%d] = %v, want %v", i, series[i].Value, w)
		}
	}
	if series[0].Time.After(series[2].Time) {
		t.Error("series not chronological")
	}
}

func TestParseTreasuryCSVNonFiniteCells(t *testing.T) {
	body := "timestamp,btc_mining_companies,countries,defi,etfs,private_companies,public_companies\n" +
		"2025-01-01,100,200,10,NaN,50,600\n"
	series, err := parseTreasuryCSV([]byte(body))
	if err != nil {
		t.Fatalf("parseTreasuryCSV error: %v", err)
	}
	// NaN counts as missing, like a blank cell
	if got := series[0].Value; got != 960 {
		t.Errorf("total = %v, want 960", got)
	}

	inf := "timestamp,btc_mining_companies,countries,defi,etfs,private_companies,public_companies\n" +
		"2025-01-01,100,200,10,Inf,50,600\n"
	if _, err := parseTreasuryCSV([]byte(inf)); err == nil {
		t.Error("expected error for infinite cell, got nil")
	}
}

func TestParseTreasuryCSVMissingColumn(t *testing.T) {
	body := "timestamp,etfs\n2025-06-08,1000\n"
	if _, err := parseTreasuryCSV([]byte(body)); err == nil {
		t.Error("expected error for missing category columns, got nil")
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2025-06-08", "2025-06-08 13:45:00", "2025-06-08T13:45:00Z"} {
		if _, err := parseTimestamp(s); err != nil {
			t.Errorf("parseTimestamp(%q) error: %v", s, err)
		}
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("parseTimestamp(yesterday) expected error")
	}
}

func TestInstitutionalFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != treasuryCSVPath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(treasuryCSV))
	}))
	defer srv.Close()

	series, err := NewInstitutional(NewClient(nil), testEndpoint(srv.URL)).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got := series[len(series)-1].Value; got != 1960 {
		t.Errorf("latest total = %v, want 1960", got)
	}
}
