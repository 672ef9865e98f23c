package presentation

// Options are the presentation knobs operators may tune at runtime.
type Options struct {
	// TopN caps the ranking charts; <= 0 shows every group.
	TopN int
	// DailyWindowDays is the rolling window of the inbound/outbound by day chart.
	DailyWindowDays int
	// HorizontalThreshold switches rankings to horizontal bars once the number
	// of groups exceeds it.
	HorizontalThreshold int
	InboundColor        string
	OutboundColor       string
	CurrencyMarker      string
	DonutHole           float64
	Titles              Titles
}

// Titles of the rendered charts and tables.
type Titles struct {
	ProductRanking  string
	SupplierRanking string
	DailyMovements  string
	ProductShare    string
	CustomerRanking string
	BillingByDay    string
	MovementTable   string
	InvoiceTable    string
}

// DefaultOptions mirror the layout operators already know.
func DefaultOptions() Options {
	return Options{
		TopN:                5,
		DailyWindowDays:     15,
		HorizontalThreshold: 3,
		InboundColor:        "#1f77b4",
		OutboundColor:       "#a04b00",
		CurrencyMarker:      "R$",
		DonutHole:           0.3,
		Titles: Titles{
			ProductRanking:  "Top Produtos por Peso Líquido",
			SupplierRanking: "Top Fornecedores por Peso Líquido",
			DailyMovements:  "Entradas e Saídas por Dia",
			ProductShare:    "Participação por Produto",
			CustomerRanking: "Top Clientes por Faturamento",
			BillingByDay:    "Faturamento por Dia",
			MovementTable:   "Lançamentos",
			InvoiceTable:    "Saídas",
		},
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.TopN == 0 {
		o.TopN = d.TopN
	}
	if o.DailyWindowDays <= 0 {
		o.DailyWindowDays = d.DailyWindowDays
	}
	if o.HorizontalThreshold <= 0 {
		o.HorizontalThreshold = d.HorizontalThreshold
	}
	if o.InboundColor == "" {
		o.InboundColor = d.InboundColor
	}
	if o.OutboundColor == "" {
		o.OutboundColor = d.OutboundColor
	}
	if o.CurrencyMarker == "" {
		o.CurrencyMarker = d.CurrencyMarker
	}
	if o.DonutHole <= 0 || o.DonutHole >= 1 {
		o.DonutHole = d.DonutHole
	}

	t := &o.Titles
	fill := func(s *string, def string) {
		if *s == "" {
			*s = def
		}
	}
	fill(&t.ProductRanking, d.Titles.ProductRanking)
	fill(&t.SupplierRanking, d.Titles.SupplierRanking)
	fill(&t.DailyMovements, d.Titles.DailyMovements)
	fill(&t.ProductShare, d.Titles.ProductShare)
	fill(&t.CustomerRanking, d.Titles.CustomerRanking)
	fill(&t.BillingByDay, d.Titles.BillingByDay)
	fill(&t.MovementTable, d.Titles.MovementTable)
	fill(&t.InvoiceTable, d.Titles.InvoiceTable)
	return o
}
