package cache

// Entry is the value held for a key in the local tier.
//
// A negative entry records that the remote store was asked and had nothing.
// It is distinct from "never looked up", which has no Entry at all.
type Entry struct {
	value    string
	negative bool
}

// ValueEntry returns an entry holding a resolved value.
func ValueEntry(value string) Entry {
	return Entry{value: value}
}

// NegativeEntry returns the placeholder for a confirmed-absent key.
func NegativeEntry() Entry {
	return Entry{negative: true}
}

// Negative reports whether e is the absent-key placeholder.
func (e Entry) Negative() bool {
	return e.negative
}

// Payload returns the value handed back to callers.
// The negative placeholder yields the empty string.
func (e Entry) Payload() string {
	if e.negative {
		return ""
	}
	return e.value
}
