// Package entry holds exhibitor entries, the orders that pay for them,
// their audit trail and class results.
package entry
