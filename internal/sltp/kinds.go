package sltp

// SLKind names a stop-loss strategy in the catalog.
type SLKind string

const (
	SLATR               SLKind = "atr"
	SLFixedPips         SLKind = "fixed_pips"
	SLSwing             SLKind = "swing"
	SLPercentage        SLKind = "percentage"
	SLSupportResistance SLKind = "support_resistance"
	SLPinBar            SLKind = "pin_bar"
)

// TPKind names a take-profit strategy in the catalog.
type TPKind string

const (
	TPRiskReward        TPKind = "risk_reward"
	TPATR               TPKind = "atr"
	TPFixedPips         TPKind = "fixed_pips"
	TPSwing             TPKind = "swing"
	TPPercentage        TPKind = "percentage"
	TPSupportResistance TPKind = "support_resistance"
	TPMultiTarget       TPKind = "multi_target"
)

// Defaults substituted when a free-tier user requests a premium kind.
const (
	DefaultSLKind = SLATR
	DefaultTPKind = TPRiskReward
)

// CatalogEntry describes one selectable strategy.
type CatalogEntry struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Premium     bool   `json:"premium"`
}

var slCatalog = map[SLKind]CatalogEntry{
	SLATR:               {Kind: string(SLATR), Description: "volatility-scaled stop, ATR(14) x multiplier", Premium: false},
	SLFixedPips:         {Kind: string(SLFixedPips), Description: "fixed pip distance from entry", Premium: false},
	SLPinBar:            {Kind: string(SLPinBar), Description: "behind the last rejection pin bar", Premium: false},
	SLSwing:             {Kind: string(SLSwing), Description: "behind the last swing point", Premium: true},
	SLPercentage:        {Kind: string(SLPercentage), Description: "percentage of entry price", Premium: true},
	SLSupportResistance: {Kind: string(SLSupportResistance), Description: "behind the nearest structural level", Premium: true},
}

var tpCatalog = map[TPKind]CatalogEntry{
	TPRiskReward:        {Kind: string(TPRiskReward), Description: "fixed multiple of the stop distance", Premium: false},
	TPFixedPips:         {Kind: string(TPFixedPips), Description: "fixed pip distance from entry", Premium: false},
	TPATR:               {Kind: string(TPATR), Description: "volatility-scaled target, ATR(14) x multiplier", Premium: true},
	TPSwing:             {Kind: string(TPSwing), Description: "recent swing extreme in the profit direction", Premium: true},
	TPPercentage:        {Kind: string(TPPercentage), Description: "percentage of entry price", Premium: true},
	TPSupportResistance: {Kind: string(TPSupportResistance), Description: "nearest structural level in the profit direction", Premium: true},
	TPMultiTarget:       {Kind: string(TPMultiTarget), Description: "partial-close ladder at 1:1, 1:2, 1:3", Premium: true},
}

// SLCatalog lists every stop-loss kind with its premium flag.
func SLCatalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(slCatalog))
	for _, k := range []SLKind{SLATR, SLFixedPips, SLPinBar, SLSwing, SLPercentage, SLSupportResistance} {
		out = append(out, slCatalog[k])
	}
	return out
}

// TPCatalog lists every take-profit kind with its premium flag.
func TPCatalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(tpCatalog))
	for _, k := range []TPKind{TPRiskReward, TPFixedPips, TPATR, TPSwing, TPPercentage, TPSupportResistance, TPMultiTarget} {
		out = append(out, tpCatalog[k])
	}
	return out
}

// SLIsPremium reports whether the kind requires a premium account. Unknown
// kinds report false; the factory rejects them separately.
func SLIsPremium(kind SLKind) bool { return slCatalog[kind].Premium }

// TPIsPremium reports whether the kind requires a premium account.
func TPIsPremium(kind TPKind) bool { return tpCatalog[kind].Premium }
