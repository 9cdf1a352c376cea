package ledger

// Position is the long holding in one instrument.
// AvgCost is meaningless once Quantity reaches zero; such positions are removed.
type Position struct {
	Instrument   string
	Quantity     float64
	AvgCost      float64
	MarkPrice    float64
	UnrealizedPL float64
	RealizedPL   float64
}

// MarketValue is Quantity * MarkPrice.
func (p Position) MarketValue() float64 {
	return p.Quantity * p.MarkPrice
}

func (p *Position) mark(price float64) {
	p.MarkPrice = price
	p.UnrealizedPL = (price - p.AvgCost) * p.Quantity
}
