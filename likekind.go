package cointax

// LikeKind is the like-kind exchange deferral policy.
//
// When enabled, an asset-to-asset exchange dated on or before Cutoff does not
// realize a gain: the received lots inherit the basis and acquisition date of
// the consumed lots, deferring the gain to their eventual disposal.
type LikeKind struct {
	Enabled bool
	Cutoff  Date
}

// Applies reports whether the deferral covers an exchange on the given date.
func (lk LikeKind) Applies(on Date) bool {
	return lk.Enabled && !on.After(lk.Cutoff)
}
