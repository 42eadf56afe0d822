package usecase

import "sort"

// Cache keys are namespaced by entity type plus an id or a filter
// signature. Distinct filters must produce distinct keys so a filtered
// list can never be served where an unfiltered one was asked for.
const (
	allUsersKey        = "allUsers"
	allAstrologersKey  = "allAstrologers"
	allAppointmentsKey = "allAppointments"
)

func UserKey(id string) string        { return "user:" + id }
func AstrologerKey(id string) string  { return "astrologer:" + id }
func AppointmentKey(id string) string { return "appointment:" + id }

// ListKey derives the cache key for a filtered list query. Filter
// dimensions are appended as sorted field:value segments, so the key is
// deterministic regardless of map iteration order and new dimensions
// never collide with existing keys.
func ListKey(base string, filter map[string]string) string {
	if len(filter) == 0 {
		return base
	}
	fields := make([]string, 0, len(filter))
	for f := range filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	key := base
	for _, f := range fields {
		key += ":" + f + ":" + filter[f]
	}
	return key
}

// astrologerListKeys enumerates every list key a write can cover: the
// unfiltered list and each variant of the one boolean filter dimension.
func astrologerListKeys() []string {
	return []string{
		allAstrologersKey,
		ListKey(allAstrologersKey, map[string]string{"isTopAstro": "true"}),
		ListKey(allAstrologersKey, map[string]string{"isTopAstro": "false"}),
	}
}
