package extraction

// NormalizeConfidence clamps a confidence value to [0,1]. Unset stays
// unset. Non-numeric wire input never reaches this function; it is
// absorbed to unset by types.FlexFloat64 during decoding.
//
// Applied exactly once, at the point an item is persisted, regardless of
// which oracle produced the value.
func NormalizeConfidence(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return &c
}
