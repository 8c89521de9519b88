// Package sponsor merges a single ad into an ordered list of posts.
package sponsor

import "strconv"

const DefaultEvery = 8

// Slot is one row of the display sequence. Post slots point back into the
// organic list by Index; sponsored slots carry Index -1.
type Slot struct {
	Key       string
	Index     int
	Sponsored bool
	// Position is the number of organic posts shown above a sponsored slot.
	Position int
}

// Interleave places the ad after every nth post. Keys are derived from the
// post ids and from (adId, position) only, so rendering the same page twice
// yields the same keys. An empty adId leaves the list organic. An empty list
// with an ad yields a single sponsored slot; every <= 0 disables the
// periodic slots but keeps that one.
func Interleave(postIds []string, adId string, every int) []Slot {
	slots := make([]Slot, 0, len(postIds)+1)
	for i, id := range postIds {
		slots = append(slots, Slot{Key: id, Index: i})
		if adId == "" || every <= 0 {
			continue
		}
		if pos := i + 1; pos%every == 0 {
			slots = append(slots, sponsored(adId, pos))
		}
	}
	if adId != "" && len(postIds) == 0 {
		slots = append(slots, Slot{Key: adId + "-empty", Index: -1, Sponsored: true})
	}
	return slots
}

func sponsored(adId string, pos int) Slot {
	return Slot{
		Key:       adId + "-" + strconv.Itoa(pos),
		Index:     -1,
		Sponsored: true,
		Position:  pos,
	}
}
