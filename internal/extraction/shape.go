package extraction

// ShapeDrift describes the first structural mismatch found between a
// draft extraction and an evaluator echo of it. Empty string means the
// shapes agree.
//
// The evaluator is contractually a 1:1 echo of the draft with only
// confidence changed, but that contract lives in a prompt. This is the
// engine-side check: space count, room types, item counts, and item
// names must match positionally. Confidence and every other field are
// ignored.
func ShapeDrift(draft, echo *Result) string {
	ds, es := draft.Spaces.Slice(), echo.Spaces.Slice()
	if len(ds) != len(es) {
		return "space count mismatch"
	}
	for i := range ds {
		if ds[i].RoomType != es[i].RoomType {
			return "room_type mismatch at space " + ds[i].RoomType
		}
		di, ei := ds[i].Items.Slice(), es[i].Items.Slice()
		if len(di) != len(ei) {
			return "item count mismatch in space " + ds[i].RoomType
		}
		for j := range di {
			if di[j].ResolvedName() != ei[j].ResolvedName() {
				return "item name mismatch in space " + ds[i].RoomType
			}
		}
	}
	return ""
}
