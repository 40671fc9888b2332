package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// Scenario defines a ledger test scenario: initial funding, a sequence of
// engine operations and assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Treasury is the account credited with purchase totals.
	// Defaults to DefaultTreasury when empty.
	Treasury string `yaml:"treasury,omitempty"`

	// Height is the logical height the scenario starts at.
	Height uint64 `yaml:"height,omitempty"`

	// Accounts maps account names to their initial vault balance.
	Accounts map[string]uint64 `yaml:"accounts,omitempty"`

	// Steps is the operation sequence, executed in order against the
	// real engine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final ledger and vault state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one engine operation with an optional expected outcome.
type Step struct {
	// Op names the operation: create_event, purchase, purchase_batch,
	// transfer, tick or fund.
	Op string `yaml:"op"`

	// As is the acting account (creator, buyer, caller or funded
	// account). Unused by tick.
	As string `yaml:"as,omitempty"`

	// Args carries the operation arguments. Keys depend on the op; see
	// the package documentation.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Expect specifies the expected outcome. A nil Expect means the step
	// must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies an expected step outcome.
type ExpectClause struct {
	// Error is the expected taxonomy code (e.g. "SOLD_OUT"). Empty means
	// the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Result contains expected outcome field values. Subset match: only
	// the listed fields are checked.
	Result map[string]interface{} `yaml:"result,omitempty"`
}

// Assertion validates final ledger or vault state.
type Assertion struct {
	// Type selects the assertion: event_state, ticket_owner, balance,
	// counters or receipt_count.
	Type string `yaml:"type"`

	// Event is the event id (event_state).
	Event uint64 `yaml:"event,omitempty"`

	// Ticket is the ticket id (ticket_owner).
	Ticket uint64 `yaml:"ticket,omitempty"`

	// Owner is the expected ticket holder (ticket_owner).
	Owner string `yaml:"owner,omitempty"`

	// Account is the vault account (balance).
	Account string `yaml:"account,omitempty"`

	// Amount is the expected balance (balance).
	Amount uint64 `yaml:"amount,omitempty"`

	// Kind narrows receipt_count to one receipt kind. Empty counts all.
	Kind string `yaml:"kind,omitempty"`

	// Count is the expected number of receipts (receipt_count).
	Count int `yaml:"count,omitempty"`

	// Expect contains expected field values (event_state, counters).
	// Subset match.
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Step operation constants.
const (
	OpCreateEvent   = "create_event"
	OpPurchase      = "purchase"
	OpPurchaseBatch = "purchase_batch"
	OpTransfer      = "transfer"
	OpTick          = "tick"
	OpFund          = "fund"
)

// Assertion type constants.
const (
	AssertEventState   = "event_state"
	AssertTicketOwner  = "ticket_owner"
	AssertBalance      = "balance"
	AssertCounters     = "counters"
	AssertReceiptCount = "receipt_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks a step's op and actor. Argument shapes are checked
// at execution time where the types are known.
func validateStep(index int, step *Step) error {
	switch step.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpCreateEvent, OpPurchase, OpPurchaseBatch, OpTransfer, OpFund:
		if step.As == "" {
			return fmt.Errorf("steps[%d]: as is required for %s", index, step.Op)
		}
	case OpTick:
		// No actor.
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	if step.Expect != nil && step.Expect.Error == "" && step.Expect.Result == nil {
		return fmt.Errorf("steps[%d].expect: error or result is required", index)
	}
	if step.Expect != nil && step.Expect.Error != "" && step.Expect.Result != nil {
		return fmt.Errorf("steps[%d].expect: a failed operation has no result fields", index)
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventState:
		if a.Event == 0 {
			return fmt.Errorf("assertions[%d]: event is required for event_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for event_state", index)
		}
	case AssertTicketOwner:
		if a.Ticket == 0 {
			return fmt.Errorf("assertions[%d]: ticket is required for ticket_owner", index)
		}
		if a.Owner == "" {
			return fmt.Errorf("assertions[%d]: owner is required for ticket_owner", index)
		}
	case AssertBalance:
		if a.Account == "" {
			return fmt.Errorf("assertions[%d]: account is required for balance", index)
		}
	case AssertCounters:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for counters", index)
		}
	case AssertReceiptCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for receipt_count", index)
		}
		if a.Kind != "" {
			switch ledger.ReceiptKind(a.Kind) {
			case ledger.ReceiptEventCreated, ledger.ReceiptTicketPurchased,
				ledger.ReceiptBatchPurchased, ledger.ReceiptTicketTransferred:
			default:
				return fmt.Errorf("assertions[%d]: unknown receipt kind %q", index, a.Kind)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
