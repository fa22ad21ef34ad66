// Package harness replays posting instruction scenarios against a client
// transaction and checks the observed effects and balances.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: inbound_partial_settlement
//	description: "An inbound authorisation settled in part"
//	account_id: main_account
//	tside: LIABILITY
//	instructions:
//	  - type: InboundAuthorisation
//	    client_transaction_id: ct-1
//	    amount: "10"
//	    denomination: GBP
//	    target_account_id: main_account
//	    internal_account_id: internal
//	    output:
//	      value_datetime: 2020-01-01T01:00:00Z
//	      committed_postings: [...]
//	expect:
//	  - at: 2020-01-01T01:30:00Z
//	    effects: { authorised: "10", settled: "0", unsettled: "10" }
//	    released: false
//	    completed: false
//	  - balances:
//	      - { phase: committed, denomination: GBP, net: "4" }
//
// Instructions are validated, journaled to an in-memory store and loaded
// back as a client transaction. A scenario whose instructions should be
// rejected sets error to a substring of the expected message instead of
// listing expectations.
//
// # Deterministic Testing
//
// Instructions without an id get one from testutil.SequentialIDGenerator.
// Instructions without a value datetime get the next whole hour after the
// previous instruction from testutil.DeterministicClock. Golden snapshots are
// therefore byte-identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/inbound.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
