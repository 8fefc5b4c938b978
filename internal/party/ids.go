package party

// NextID returns max(ids)+1, or 1 for an empty collection.
func NextID(ids []int) int {
	next := 1
	for _, v := range ids {
		if v >= next {
			next = v + 1
		}
	}
	return next
}

// IDs collects the ids of a party collection.
func IDs(parties []Party) []int {
	out := make([]int, 0, len(parties))
	for _, p := range parties {
		out = append(out, p.ID)
	}
	return out
}

// Find returns the index of the party with partyID, or -1.
func Find(parties []Party, partyID int) int {
	for i := range parties {
		if parties[i].ID == partyID {
			return i
		}
	}
	return -1
}
