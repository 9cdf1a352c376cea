package ledger

// CostPolicy decides how much profit a sell realizes against the held position.
// It is the only place realized PnL is computed; cash and quantity bookkeeping
// stay in the Ledger regardless of policy.
type CostPolicy interface {
	Name() string
	Realize(pos Position, quantity, price float64) float64
}

// AverageCost realizes against the blended average cost of the whole position.
// There is no lot matching: a partial sell leaves AvgCost unchanged.
type AverageCost struct{}

func (AverageCost) Name() string { return "average-cost" }

func (AverageCost) Realize(pos Position, quantity, price float64) float64 {
	return quantity*price - quantity*pos.AvgCost
}
