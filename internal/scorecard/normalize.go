package scorecard

// Normalize rescales applicable weights so they sum to 100, rounding each to
// one decimal and crediting the residual to the first applicable entry in
// input order. Inapplicable entries are forced to 0. When the applicable total
// is 0 the applicable weights are returned unchanged. The input is not modified.
func Normalize(table WeightTable) WeightTable {
	out := table.Clone()
	for i := range out {
		out[i].Weight = SanitizeWeight(out[i].Weight)
		if !out[i].Applicable {
			out[i].Weight = 0
		}
	}

	total := out.ApplicableTotal()
	if total == 0 {
		return out
	}

	first := -1
	remaining := 100.0
	for i := range out {
		if !out[i].Applicable {
			continue
		}
		if first == -1 {
			first = i
		}
		out[i].Weight = Round1(out[i].Weight / total * 100)
		remaining -= out[i].Weight
	}

	if first != -1 {
		out[first].Weight = Round1(out[first].Weight + remaining)
	}
	return out
}

// ToggleApplicability flips the applicable flag of id and renormalizes the
// table. A category switched off drops to weight 0; one switched back on keeps
// whatever weight it carries. Unknown ids return a normalized copy.
func ToggleApplicability(table WeightTable, id string) WeightTable {
	out := table.Clone()
	for i := range out {
		if out[i].ID != id {
			continue
		}
		out[i].Applicable = !out[i].Applicable
		if !out[i].Applicable {
			out[i].Weight = 0
		}
	}
	return Normalize(out)
}
