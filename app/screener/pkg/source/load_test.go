package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/model"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/screen"
)

func TestLoad_JapaneseLayout(t *testing.T) {
	ds, err := Load(context.Background(), NewCSVFile("testdata/next100_v1.csv"), SchemaAuto)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Schema != "v1" {
		t.Errorf("schema = %s, want v1", ds.Schema)
	}
	if len(ds.Records) != 3 || ds.Dropped != 2 {
		t.Fatalf("rows = %d dropped = %d, want 3 and 2", len(ds.Records), ds.Dropped)
	}
	if ds.ID == "" || ds.Source != "csv:testdata/next100_v1.csv" {
		t.Errorf("dataset identity = %q %q", ds.ID, ds.Source)
	}

	first := ds.Records[0]
	if first.Code != "4417" || !first.MarketCap.Decimal.Equal(decimal.NewFromInt(5120)) {
		t.Errorf("first record = %+v", first)
	}
	if first.Revenue.Valid {
		t.Errorf("revenue = %v, want null for v1 layout", first.Revenue)
	}
	// 无营收列时毛利率无定义，不会得到 high-margin 标签
	for _, r := range ds.Records {
		if r.GrossMargin.Valid {
			t.Errorf("%s gross margin = %v, want undefined", r.Code, r.GrossMargin)
		}
		for _, tag := range screen.Tags(&r) {
			if tag == model.TagHighMargin {
				t.Errorf("%s tagged high-margin without revenue", r.Code)
			}
		}
	}
}

func TestLoad_AutoSchemaMissingFinancialColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial_v2.csv")
	body := "コード,銘柄名,上場日,時価総額(百万円),経過年数,残り年数,必要CAGR(%),売上高(百万円),売上原価(百万円),営業利益(百万円)\n" +
		"4417,GSX,2021/12/21,5120,2.8,2.2,18.52,1000,900,120\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(context.Background(), NewCSVFile(path), SchemaAuto)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Load() = %+v, %v, want ErrMissingColumn", ds, err)
	}
	for _, want := range []string{"schema v2", "営業CF(百万円)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoad_CanonicalLayout(t *testing.T) {
	ds, err := Load(context.Background(), NewCSVFile("testdata/next100_v3.csv"), "v3")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Records) != 4 || ds.Dropped != 0 {
		t.Fatalf("rows = %d dropped = %d, want 4 and 0", len(ds.Records), ds.Dropped)
	}

	margins := make([]string, len(ds.Records))
	for i, r := range ds.Records {
		if r.GrossMargin.Valid {
			margins[i] = r.GrossMargin.Decimal.String()
		} else {
			margins[i] = "undefined"
		}
	}
	// 4417: (3100-1350)/3100 = 56.45%; 5034: 成本缺失; 5127: 营收为 0; 5246: 成本为 0
	want := []string{"56.45", "100", "undefined", "100"}
	if diff := cmp.Diff(want, margins); diff != "" {
		t.Errorf("gross margins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	if err := os.WriteFile(path, []byte("code,name,market_cap\n1,a,10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(context.Background(), NewCSVFile(path), "v3")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Load() error = %v, want ErrMissingColumn", err)
	}
	if !strings.Contains(err.Error(), "required_cagr_pct") {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestLoad_FromURL(t *testing.T) {
	body, err := os.ReadFile("testdata/next100_v3.csv")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/next100.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	ds, err := Load(context.Background(), NewCSVURL(srv.URL+"/next100.csv", 5), SchemaAuto)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Records) != 4 {
		t.Errorf("rows = %d, want 4", len(ds.Records))
	}

	_, err = Load(context.Background(), NewCSVURL(srv.URL+"/missing.csv", 5), SchemaAuto)
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Errorf("Load() error = %v, want status 404", err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		valid   bool
		wantErr bool
	}{
		{"1,234.5", "1234.5", true, false},
		{" 27.1 ", "27.1", true, false},
		{"12%", "12", true, false},
		{"-300", "-300", true, false},
		{"", "", false, false},
		{"NaN", "", false, false},
		{"-", "", false, false},
		{"n/a(上場廃止)", "", false, true},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNumber(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got.Valid != tt.valid {
			t.Errorf("ParseNumber(%q) valid = %v, want %v", tt.in, got.Valid, tt.valid)
			continue
		}
		if tt.valid && !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseNumber(%q) = %s, want %s", tt.in, got.Decimal, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	src, err := New(config.SourceConfig{Provider: "csv", CSV: config.CSVConfig{Path: "a.csv"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if src.ID() != "csv:a.csv" {
		t.Errorf("ID() = %q", src.ID())
	}

	src, err = New(config.SourceConfig{Provider: "csv", CSV: config.CSVConfig{Path: "a.csv", URL: "https://example.com/a.csv"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if src.ID() != "csv+https://example.com/a.csv" {
		t.Errorf("ID() = %q", src.ID())
	}

	if _, err := New(config.SourceConfig{Provider: "xlsx"}); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("New() error = %v, want ErrUnknownProvider", err)
	}
	if _, err := New(config.SourceConfig{Provider: "postgres"}); err == nil {
		t.Error("New(postgres) without host should fail")
	}
}

func TestRecord_KeepsRowsWithBadOptionalCells(t *testing.T) {
	m, err := ResolveSchema("v3", v3Header)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := m.Record([]string{"1", "a", "", "oops", "", "", "12.5", "", "", "", ""})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if rec.MarketCap.Valid {
		t.Errorf("market cap = %v, want null", rec.MarketCap)
	}
	if !rec.RequiredCAGR.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("required cagr = %s", rec.RequiredCAGR)
	}
}
