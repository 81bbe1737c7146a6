// Package analysis drives one passprivacy run: it loads the password
// corpus, evaluates it in the mode implied by the parameters, writes the
// sweep CSV and records the run in the history store.
//
// The stages are pipeline steps executed in sequence over a shared
// Analysis value. Each step can be used on its own in tests.
//
// Mode selection follows the presence of the two analysis parameters:
//
//	first bits  digest   mode
//	set         set      single   k-anonymity of one digest at one length
//	set         unset    compare  every digest at one length, best selected
//	unset       set      sweep    one digest at lengths 1..max, averaged
//	unset       unset    matrix   every digest at every length, CSV exported
package analysis
