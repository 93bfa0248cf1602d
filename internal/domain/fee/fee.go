// Package fee prices show entries. Every code path that needs an entry
// total or a per-class fee snapshot goes through Calculate, so checkout,
// class extension and amendment can never disagree.
package fee

import "github.com/google/uuid"

// TierConfig is a show's tier configuration. A nil field means the tier is
// not configured and pricing falls back to the next rule.
type TierConfig struct {
	FirstEntryFee      *int64
	SubsequentEntryFee *int64
	NFCEntryFee        *int64
}

// ClassFee is a requested class with its flat ShowClass fee
type ClassFee struct {
	ShowClassID uuid.UUID
	EntryFee    int64
}

// Snapshot is the fee frozen onto one EntryClass
type Snapshot struct {
	ShowClassID uuid.UUID
	Fee         int64
}

// Quote is the priced result. Total always equals the sum of snapshot fees.
type Quote struct {
	Total     int64
	Snapshots []Snapshot
}

// Model names the rule that produced a quote
type Model string

const (
	ModelNFC    Model = "nfc"
	ModelTiered Model = "tiered"
	ModelFlat   Model = "flat"
)

// ModelFor reports which rule applies to an entry
func ModelFor(cfg TierConfig, isNFC bool) Model {
	switch {
	case isNFC && cfg.NFCEntryFee != nil:
		return ModelNFC
	case cfg.FirstEntryFee != nil:
		return ModelTiered
	default:
		return ModelFlat
	}
}

// Calculate prices classes in request order:
//   - NFC entry with nfcEntryFee set: nfcEntryFee per class
//   - firstEntryFee set: first class firstEntryFee, the rest subsequentEntryFee
//     (or firstEntryFee when no subsequent tier is set)
//   - otherwise: each class's own entry fee
func Calculate(cfg TierConfig, classes []ClassFee, isNFC bool) Quote {
	q := Quote{Snapshots: make([]Snapshot, 0, len(classes))}
	model := ModelFor(cfg, isNFC)

	for i, c := range classes {
		var amount int64
		switch model {
		case ModelNFC:
			amount = *cfg.NFCEntryFee
		case ModelTiered:
			amount = *cfg.FirstEntryFee
			if i > 0 && cfg.SubsequentEntryFee != nil {
				amount = *cfg.SubsequentEntryFee
			}
		default:
			amount = c.EntryFee
		}
		amount = nonNegative(amount)
		q.Snapshots = append(q.Snapshots, Snapshot{ShowClassID: c.ShowClassID, Fee: amount})
		q.Total += amount
	}
	return q
}

// CalculateAppended prices classes added to an entry that already holds
// existing classes. The added classes take the positions after the existing
// ones, so under the tiered model they are all subsequent classes.
func CalculateAppended(cfg TierConfig, existing, added []ClassFee, isNFC bool) Quote {
	all := make([]ClassFee, 0, len(existing)+len(added))
	all = append(all, existing...)
	all = append(all, added...)
	full := Calculate(cfg, all, isNFC)

	q := Quote{Snapshots: full.Snapshots[len(existing):]}
	for _, s := range q.Snapshots {
		q.Total += s.Fee
	}
	return q
}

// Total prices a class count without per-class fees. Under the flat model
// the result is zero, as there are no class fees to sum.
func Total(cfg TierConfig, classCount int, isNFC bool) int64 {
	if classCount <= 0 {
		return 0
	}
	return Calculate(cfg, make([]ClassFee, classCount), isNFC).Total
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
