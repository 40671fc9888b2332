package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/clock"
	"github.com/stagedoor/boxoffice/internal/engine"
	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/store"
	"github.com/stagedoor/boxoffice/internal/testutil"
)

// DefaultTreasury is the treasury account used when a scenario does not
// name one.
const DefaultTreasury = "treasury"

// Harness drives one scenario against a real engine. Steps run through
// the engine's public operations; nothing is written behind its back, so
// a passing expect clause reflects what the engine actually did.
type Harness struct {
	engine *engine.Engine
	store  *store.Store
	vault  *bank.Vault
	clock  *clock.Manual
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in fresh in-memory databases for isolation, with a
// manual clock starting at the scenario height and sequential receipt
// tokens for reproducible journals.
//
// Engine rejections are recorded as step outcomes and checked against the
// expect clauses; the returned error covers harness-level failures only
// (malformed arguments, broken environment).
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	vault, err := bank.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory vault: %w", err)
	}
	defer vault.Close()

	if scenario.Height > 0 {
		if _, err := st.AdvanceHeight(ctx, scenario.Height); err != nil {
			return nil, fmt.Errorf("failed to set starting height: %w", err)
		}
	}

	treasury := scenario.Treasury
	if treasury == "" {
		treasury = DefaultTreasury
	}

	clk := clock.NewManual(scenario.Height)
	tokens := testutil.NewTokenSequence("rcpt")

	eng, err := engine.New(st, vault, clk, treasury, engine.WithReceiptTokens(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	// Fund initial accounts in name order so deposits journal identically
	// across runs.
	accounts := make([]string, 0, len(scenario.Accounts))
	for acct := range scenario.Accounts {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	for _, acct := range accounts {
		if err := vault.Deposit(ctx, acct, scenario.Accounts[acct]); err != nil {
			return nil, fmt.Errorf("failed to fund account %q: %w", acct, err)
		}
	}

	h := &Harness{
		engine: eng,
		store:  st,
		vault:  vault,
		clock:  clk,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		out, err := h.executeStep(ctx, i, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
		result.AddOutcome(out)
		checkExpect(result, i, step, out)
	}

	actx := &AssertionContext{
		Store: st,
		Bank:  vault,
		Ctx:   ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep dispatches one step to the engine and records the outcome.
// An engine rejection becomes an outcome with the taxonomy code; the
// returned error is reserved for malformed step arguments.
func (h *Harness) executeStep(ctx context.Context, index int, step Step) (Outcome, error) {
	out := Outcome{
		Step:  index + 1,
		Op:    step.Op,
		Actor: step.As,
	}

	switch step.Op {
	case OpCreateEvent:
		p, err := createParams(step)
		if err != nil {
			return out, err
		}
		ev, err := h.engine.CreateEvent(ctx, p)
		if err != nil {
			out.Error = ledger.Code(err)
			return out, nil
		}
		out.Result = EventOutcome{
			EventID:         ev.ID,
			Name:            ev.Name,
			EventHeight:     ev.EventHeight,
			TotalSupply:     ev.TotalSupply,
			AvailableSupply: ev.AvailableSupply,
			BasePrice:       ev.BasePrice,
		}

	case OpPurchase:
		eventID, err := needUint(step.Args, "event")
		if err != nil {
			return out, err
		}
		seat, _, err := getString(step.Args, "seat")
		if err != nil {
			return out, err
		}
		res, err := h.engine.Purchase(ctx, step.As, eventID, seat)
		if err != nil {
			out.Error = ledger.Code(err)
			return out, nil
		}
		out.Result = res

	case OpPurchaseBatch:
		eventID, err := needUint(step.Args, "event")
		if err != nil {
			return out, err
		}
		quantity, err := needUint(step.Args, "quantity")
		if err != nil {
			return out, err
		}
		seats, ok, err := getStrings(step.Args, "seats")
		if err != nil {
			return out, err
		}
		if !ok {
			seats = make([]string, quantity)
		}
		discount, _, err := getBool(step.Args, "group_discount")
		if err != nil {
			return out, err
		}
		res, err := h.engine.PurchaseBatch(ctx, step.As, eventID, quantity, seats, discount)
		if err != nil {
			out.Error = ledger.Code(err)
			return out, nil
		}
		out.Result = res

	case OpTransfer:
		ticketID, err := needUint(step.Args, "ticket")
		if err != nil {
			return out, err
		}
		to, err := needString(step.Args, "to")
		if err != nil {
			return out, err
		}
		tk, err := h.engine.Transfer(ctx, step.As, ticketID, to)
		if err != nil {
			out.Error = ledger.Code(err)
			return out, nil
		}
		out.Result = TransferOutcome{
			TicketID: tk.ID,
			EventID:  tk.EventID,
			Owner:    tk.Owner,
		}

	case OpTick:
		by, ok, err := getUint(step.Args, "by")
		if err != nil {
			return out, err
		}
		if !ok {
			by = 1
		}
		height, err := h.engine.Tick(ctx, by)
		if err != nil {
			out.Error = ledger.Code(err)
			return out, nil
		}
		out.Result = TickOutcome{Height: height}

	case OpFund:
		amount, err := needUint(step.Args, "amount")
		if err != nil {
			return out, err
		}
		if err := h.vault.Deposit(ctx, step.As, amount); err != nil {
			return out, fmt.Errorf("deposit failed: %w", err)
		}
		balance, err := h.vault.Balance(ctx, step.As)
		if err != nil {
			return out, fmt.Errorf("balance read failed: %w", err)
		}
		out.Result = FundOutcome{
			Account: step.As,
			Amount:  amount,
			Balance: balance,
		}

	default:
		// validateScenario rejects unknown ops before execution.
		return out, fmt.Errorf("unknown op %q", step.Op)
	}

	return out, nil
}

// createParams extracts CreateEventParams from a create_event step.
func createParams(step Step) (engine.CreateEventParams, error) {
	var p engine.CreateEventParams
	var err error

	p.Creator = step.As
	if p.Name, err = needString(step.Args, "name"); err != nil {
		return p, err
	}
	if p.Description, _, err = getString(step.Args, "description"); err != nil {
		return p, err
	}
	if p.Venue, _, err = getString(step.Args, "venue"); err != nil {
		return p, err
	}
	if p.EventType, _, err = getString(step.Args, "event_type"); err != nil {
		return p, err
	}
	if p.EventHeight, err = needUint(step.Args, "event_height"); err != nil {
		return p, err
	}
	if p.TotalSupply, err = needUint(step.Args, "total_tickets"); err != nil {
		return p, err
	}
	if p.BasePrice, err = needUint(step.Args, "base_price"); err != nil {
		return p, err
	}
	return p, nil
}

// checkExpect compares a step's actual outcome against its expect clause
// and records any mismatch on the result.
func checkExpect(result *Result, index int, step Step, out Outcome) {
	wantErr := ""
	if step.Expect != nil {
		wantErr = step.Expect.Error
	}

	switch {
	case out.Error != "" && wantErr == "":
		result.AddError(fmt.Sprintf("steps[%d] (%s): unexpected error %s", index, step.Op, out.Error))
		return
	case out.Error == "" && wantErr != "":
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected error %s, operation succeeded", index, step.Op, wantErr))
		return
	case out.Error != wantErr:
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected error %s, got %s", index, step.Op, wantErr, out.Error))
		return
	}

	if step.Expect != nil && step.Expect.Result != nil {
		if err := matchResult(out.Result, step.Expect.Result); err != nil {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %v", index, step.Op, err))
		}
	}
}

// matchResult subset-matches expected fields against an outcome. The
// outcome struct is flattened through its JSON form so expected keys use
// the same names the log and golden files show.
func matchResult(actual interface{}, expected map[string]interface{}) error {
	if actual == nil {
		return fmt.Errorf("expected result fields, operation returned none")
	}

	raw, err := json.Marshal(actual)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decode outcome: %w", err)
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		actualVal, ok := fields[key]
		if !ok {
			return fmt.Errorf("result has no field %q (fields: %s)", key, fieldNames(fields))
		}
		if !scalarEqual(expected[key], actualVal) {
			return fmt.Errorf("result field %q = %v, expected %v", key, actualVal, expected[key])
		}
	}
	return nil
}

// fieldNames lists a result's field names, sorted, for error messages.
func fieldNames(fields map[string]interface{}) string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// scalarEqual compares a YAML-parsed expected value with a JSON-decoded
// actual value. Numbers are compared through their canonical decimal
// form so int, uint64 and json.Number all agree.
func scalarEqual(expected, actual interface{}) bool {
	if en, ok := numericString(expected); ok {
		an, ok2 := numericString(actual)
		return ok2 && en == an
	}

	switch e := expected.(type) {
	case bool:
		a, ok := actual.(bool)
		return ok && e == a
	case string:
		a, ok := actual.(string)
		return ok && e == a
	}

	return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
}

// numericString renders any integer-valued number as its decimal string.
func numericString(v interface{}) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10), true
		}
		return strconv.FormatFloat(n, 'g', -1, 64), true
	case json.Number:
		return n.String(), true
	}
	return "", false
}

// needString returns a required string argument.
func needString(args map[string]interface{}, key string) (string, error) {
	s, ok, err := getString(args, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("arg %q is required", key)
	}
	return s, nil
}

// getString returns an optional string argument.
func getString(args map[string]interface{}, key string) (string, bool, error) {
	v, ok := args[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("arg %q: expected string, got %T", key, v)
	}
	return s, true, nil
}

// needUint returns a required non-negative integer argument.
func needUint(args map[string]interface{}, key string) (uint64, error) {
	n, ok, err := getUint(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("arg %q is required", key)
	}
	return n, nil
}

// getUint returns an optional non-negative integer argument. YAML hands
// integers over as int or int64 depending on magnitude.
func getUint(args map[string]interface{}, key string) (uint64, bool, error) {
	v, ok := args[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, false, fmt.Errorf("arg %q: negative value %d", key, n)
		}
		return uint64(n), true, nil
	case int64:
		if n < 0 {
			return 0, false, fmt.Errorf("arg %q: negative value %d", key, n)
		}
		return uint64(n), true, nil
	case uint64:
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("arg %q: expected integer, got %T", key, v)
	}
}

// getBool returns an optional boolean argument.
func getBool(args map[string]interface{}, key string) (bool, bool, error) {
	v, ok := args[key]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, fmt.Errorf("arg %q: expected bool, got %T", key, v)
	}
	return b, true, nil
}

// getStrings returns an optional list-of-strings argument.
func getStrings(args map[string]interface{}, key string) ([]string, bool, error) {
	v, ok := args[key]
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false, fmt.Errorf("arg %q: expected list, got %T", key, v)
	}
	out := make([]string, len(raw))
	for i, elem := range raw {
		s, ok := elem.(string)
		if !ok {
			return nil, false, fmt.Errorf("arg %q[%d]: expected string, got %T", key, i, elem)
		}
		out[i] = s
	}
	return out, true, nil
}
