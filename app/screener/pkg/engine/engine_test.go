package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/cache"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/insight"
	dm "github.com/iWorld-y/growth_radar/app/screener/pkg/model"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/screen"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/source"
)

const sampleCSV = `code,name,listing_date,market_cap,years_elapsed,years_remaining,required_cagr_pct,revenue,cost_of_revenue,operating_income,operating_cash_flow
1001,Alpha,2022-03-01,7500,2.5,2.5,15,10000000,4000000,500,-200
1002,Beta,2022-06-01,3200,2.2,2.8,35,900,700,-50,30
1003,Gamma,2023-01-01,1200,1.7,3.3,55,2000,,120,80
1004,Delta,2023-04-01,4100,1.4,3.6,broken,500,100,10,10
`

type memSource struct {
	reads int
}

func (m *memSource) ID() string { return "mem:sample" }

func (m *memSource) Read(ctx context.Context) (*source.RawTable, error) {
	m.reads++
	return source.ParseCSV(strings.NewReader(sampleCSV))
}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func newTestEngine(t *testing.T, narrator *insight.Narrator) (*Engine, *memSource) {
	t.Helper()
	src := &memSource{}
	e, err := NewEngine(config.Default(), src, cache.New("auto"), narrator)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, src
}

func rowCodes(res *Result) []string {
	out := make([]string, len(res.Rows))
	for i, r := range res.Rows {
		out[i] = r.Cells[0]
	}
	return out
}

func TestEngine_ScreenDefaultsToObservedRange(t *testing.T) {
	e, src := newTestEngine(t, nil)

	res, err := e.Screen(context.Background(), Criteria{})
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if res.Total != 3 || res.Count != 3 {
		t.Errorf("total/count = %d/%d, want 3/3", res.Total, res.Count)
	}
	if !res.CAGRMin.Equal(decimal.NewFromInt(15)) || !res.CAGRMax.Equal(decimal.NewFromInt(55)) {
		t.Errorf("cagr range = [%s, %s], want [15, 55]", res.CAGRMin, res.CAGRMax)
	}
	if len(res.Commentary) != 1 || res.Commentary[0].Severity != dm.SeverityCritical {
		t.Errorf("commentary = %+v, want one critical cagr entry", res.Commentary)
	}

	if _, err := e.Screen(context.Background(), Criteria{}); err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if src.reads != 1 {
		t.Errorf("source reads = %d, want 1", src.reads)
	}
}

func TestEngine_ScreenRangeExample(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	res, err := e.Screen(context.Background(), Criteria{CAGRMin: dec("20"), CAGRMax: dec("40")})
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if diff := cmp.Diff([]string{"1002"}, rowCodes(res)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := res.Commentary[0]; got.Severity != dm.SeverityCaution || !got.Value.Equal(decimal.NewFromInt(40)) {
		t.Errorf("cagr commentary = %+v, want caution at 40", got)
	}
}

func TestEngine_ScreenLowerBounds(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	res, err := e.Screen(context.Background(), Criteria{
		MinGrossMargin:     dec("60"),
		MinOperatingIncome: dec("0"),
	})
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if diff := cmp.Diff([]string{"1001", "1003"}, rowCodes(res)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	var steps []string
	for _, s := range res.Steps {
		steps = append(steps, string(s.Field))
	}
	if diff := cmp.Diff([]string{"required_cagr", "gross_margin", "operating_income"}, steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	if res.Steps[1].Remaining != 2 || res.Steps[2].Remaining != 2 {
		t.Errorf("remaining = %d, %d; want 2, 2", res.Steps[1].Remaining, res.Steps[2].Remaining)
	}

	// 1001: 营业利润为正、现金流为负、毛利率 60
	if diff := cmp.Diff([]dm.Tag{dm.TagProfitable, dm.TagHighMargin}, res.Rows[0].Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if res.Columns[3].Label != "Market Cap" {
		t.Errorf("market cap label = %q", res.Columns[3].Label)
	}
}

func TestEngine_ScreenEmptyResult(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	res, err := e.Screen(context.Background(), Criteria{MinRevenue: dec("1e12")})
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if res.Count != 0 || len(res.Rows) != 0 {
		t.Errorf("count = %d rows = %d, want 0", res.Count, len(res.Rows))
	}
}

func TestEngine_ScreenInvalidBounds(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.Screen(context.Background(), Criteria{CAGRMin: dec("40"), CAGRMax: dec("20")})
	if !errors.Is(err, screen.ErrInvalidBounds) {
		t.Fatalf("Screen() error = %v, want ErrInvalidBounds", err)
	}
}

func TestEngine_ScreenSingleBoundOutsideObservedRange(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		lo, hi   string
	}{
		{"min above observed max", Criteria{CAGRMin: dec("60")}, "60", "60"},
		{"max below observed min", Criteria{CAGRMax: dec("10")}, "10", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil)

			res, err := e.Screen(context.Background(), tt.criteria)
			if err != nil {
				t.Fatalf("Screen() error = %v, want empty result", err)
			}
			if res.Count != 0 || len(res.Rows) != 0 {
				t.Errorf("count = %d, want 0", res.Count)
			}
			if !res.CAGRMin.Equal(decimal.RequireFromString(tt.lo)) || !res.CAGRMax.Equal(decimal.RequireFromString(tt.hi)) {
				t.Errorf("cagr range = [%s, %s], want [%s, %s]", res.CAGRMin, res.CAGRMax, tt.lo, tt.hi)
			}
		})
	}
}

func TestEngine_ScreenUnknownColumn(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.Screen(context.Background(), Criteria{Columns: []string{"code", "per"}})
	if !errors.Is(err, screen.ErrUnknownColumn) {
		t.Fatalf("Screen() error = %v, want ErrUnknownColumn", err)
	}
}

type stubChatModel struct {
	prompt string
}

func (s *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	s.prompt = input[len(input)-1].Content
	return &schema.Message{Role: schema.Assistant, Content: "Two profitable names."}, nil
}

func (s *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestEngine_ScreenWithInsight(t *testing.T) {
	cm := &stubChatModel{}
	e, _ := newTestEngine(t, insight.NewNarrator(cm, rate.NewLimiter(rate.Inf, 1)))

	res, err := e.Screen(context.Background(), Criteria{MinOperatingIncome: dec("1"), WithInsight: true})
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if res.Insight != "Two profitable names." {
		t.Errorf("insight = %q", res.Insight)
	}
	if !strings.Contains(cm.prompt, "1001 Alpha") || !strings.Contains(cm.prompt, "operating_income >= 1") {
		t.Errorf("prompt missing screen summary:\n%s", cm.prompt)
	}

	res, err = e.Screen(context.Background(), Criteria{})
	if err != nil {
		t.Fatalf("Screen() error = %v", err)
	}
	if res.Insight != "" {
		t.Errorf("insight = %q, want empty when not requested", res.Insight)
	}
}

func TestEngine_Describe(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	s, err := e.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if s.Rows != 3 || s.Dropped != 1 || s.Schema != "v3" {
		t.Errorf("summary = %+v", s)
	}
	var cagr *FieldRange
	for i := range s.Ranges {
		if s.Ranges[i].Field == dm.FieldRequiredCAGR {
			cagr = &s.Ranges[i]
		}
	}
	if cagr == nil || !cagr.Min.Equal(decimal.NewFromInt(15)) || !cagr.Max.Equal(decimal.NewFromInt(55)) {
		t.Errorf("cagr range = %+v", cagr)
	}
}

func TestEngine_Reload(t *testing.T) {
	e, src := newTestEngine(t, nil)

	first, err := e.Describe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID || src.reads != 2 {
		t.Errorf("reload kept snapshot %s (reads=%d)", first.ID, src.reads)
	}
}

func TestBandsFromConfig(t *testing.T) {
	bands, err := BandsFromConfig(map[string]config.BandConfig{
		"revenue": {
			Boundaries: []decimal.Decimal{decimal.NewFromInt(100)},
			Levels:     []config.LevelConfig{{Severity: "caution"}, {Severity: "good"}},
		},
	})
	if err != nil {
		t.Fatalf("BandsFromConfig() error = %v", err)
	}
	if got := screen.ClassifyBand(decimal.NewFromInt(150), bands[dm.FieldRevenue]).Severity; got != dm.SeverityGood {
		t.Errorf("revenue 150 = %s, want good", got)
	}
	if len(bands[dm.FieldGrossMargin].Levels) != 5 {
		t.Error("gross margin defaults were not kept")
	}

	_, err = BandsFromConfig(map[string]config.BandConfig{"per": {}})
	if !errors.Is(err, screen.ErrUnknownField) {
		t.Errorf("BandsFromConfig() error = %v, want ErrUnknownField", err)
	}
	_, err = BandsFromConfig(map[string]config.BandConfig{"revenue": {Levels: []config.LevelConfig{{Severity: "good"}, {Severity: "good"}}}})
	if !errors.Is(err, screen.ErrInvalidBands) {
		t.Errorf("BandsFromConfig() error = %v, want ErrInvalidBands", err)
	}
}

func TestEngine_Bands(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	var fields []dm.Field
	for _, b := range e.Bands() {
		fields = append(fields, b.Field)
	}
	if diff := cmp.Diff(SliderFields, fields); diff != "" {
		t.Errorf("Bands() order mismatch (-want +got):\n%s", diff)
	}
}
