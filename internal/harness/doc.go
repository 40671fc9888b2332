// Package harness executes ledger scenarios against a real engine.
//
// A scenario funds accounts, runs a sequence of engine operations and
// checks the outcomes and the final ledger state. Every run uses a fresh
// in-memory ledger store and bank vault, a manual clock starting at the
// scenario height, and a sequential receipt token generator, so the same
// scenario always journals exactly the same bytes.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	treasury: treasury        # optional, defaults to "treasury"
//	height: 0                 # optional starting height
//	accounts:                 # initial vault funding
//	  alice: 500
//	steps:
//	  - op: create_event
//	    as: promoter
//	    args: { name: Gala, event_height: 100, total_tickets: 10, base_price: 100 }
//	  - op: purchase
//	    as: alice
//	    args: { event: 1, seat: A-1 }
//	    expect:
//	      result: { price: 100, fee: 5, total: 105 }
//	  - op: purchase
//	    as: mallory
//	    args: { event: 1 }
//	    expect:
//	      error: INSUFFICIENT_PAYMENT
//	assertions:
//	  - type: event_state
//	    event: 1
//	    expect: { available_supply: 9 }
//	  - type: ticket_owner
//	    ticket: 1
//	    owner: alice
//	  - type: balance
//	    account: alice
//	    amount: 395
//	  - type: counters
//	    expect: { next_ticket_id: 2, platform_revenue: 5 }
//	  - type: receipt_count
//	    kind: ticket_purchased
//	    count: 1
//
// # Steps
//
// Supported operations: create_event, purchase, purchase_batch, transfer,
// tick, fund. The `as` field names the acting account. A step without an
// expect clause must succeed; a step expecting an error must fail with
// exactly that taxonomy code. Expected result fields are a subset match
// against the operation's outcome.
//
// # Assertion Types
//
//   - event_state: reads an event and subset-matches its fields
//   - ticket_owner: verifies who holds a ticket
//   - balance: verifies a vault account balance
//   - counters: subset-matches the ledger-wide counters
//   - receipt_count: counts journal receipts, optionally by kind
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/single_purchase.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
