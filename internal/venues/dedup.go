package venues

import "strings"

// Deduplicate collapses duplicate candidates in a single greedy pass.
// First-seen wins. Two identity keys are maintained: the provider id
// namespaced by source (ids are not comparable across providers), and the
// case-insensitive name|address tuple. A candidate is dropped when either
// key has already been seen. The pass is order-dependent and idempotent.
func Deduplicate(candidates []Candidate) []Candidate {
	seenIDs := make(map[string]struct{}, len(candidates))
	seenNameAddrs := make(map[string]struct{}, len(candidates))

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		idKey := sourceIDKey(c)
		nameKey := nameAddressKey(c)

		if idKey != "" {
			if _, dup := seenIDs[idKey]; dup {
				continue
			}
		}
		if nameKey != "" {
			if _, dup := seenNameAddrs[nameKey]; dup {
				continue
			}
		}

		if idKey != "" {
			seenIDs[idKey] = struct{}{}
		}
		if nameKey != "" {
			seenNameAddrs[nameKey] = struct{}{}
		}
		out = append(out, c)
	}

	return out
}

func sourceIDKey(c Candidate) string {
	if c.SourceID == "" {
		return ""
	}
	return string(c.Source) + ":" + c.SourceID
}

func nameAddressKey(c Candidate) string {
	if c.Name == "" && c.Address == "" {
		return ""
	}
	return strings.ToLower(c.Name) + "|" + strings.ToLower(c.Address)
}
