package harness

// Outcome records what one step actually did. Error carries the taxonomy
// code when the engine rejected the operation; Result carries the
// operation's outcome when it committed. Exactly one of the two is set.
type Outcome struct {
	Step   int         `json:"step"` // 1-based position in the scenario
	Op     string      `json:"op"`
	Actor  string      `json:"actor,omitempty"`
	Error  string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

// EventOutcome is the logged result of a create_event step.
type EventOutcome struct {
	EventID         uint64 `json:"event_id"`
	Name            string `json:"name"`
	EventHeight     uint64 `json:"event_height"`
	TotalSupply     uint64 `json:"total_supply"`
	AvailableSupply uint64 `json:"available_supply"`
	BasePrice       uint64 `json:"base_price"`
}

// TransferOutcome is the logged result of a transfer step.
type TransferOutcome struct {
	TicketID uint64 `json:"ticket_id"`
	EventID  uint64 `json:"event_id"`
	Owner    string `json:"owner"`
}

// TickOutcome is the logged result of a tick step.
type TickOutcome struct {
	Height uint64 `json:"height"`
}

// FundOutcome is the logged result of a fund step.
type FundOutcome struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
	Balance uint64 `json:"balance"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause matched and
	// every assertion held.
	Pass bool `json:"pass"`

	// Log contains one outcome per executed step, in order.
	Log []Outcome `json:"log"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Log:    []Outcome{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutcome appends a step outcome to the log.
func (r *Result) AddOutcome(out Outcome) {
	r.Log = append(r.Log, out)
}
