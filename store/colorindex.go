package store

import (
	"math"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/distilgo/colorspace"
	"github.com/hupe1980/distilgo/distance"
	"github.com/hupe1980/distilgo/palette"
)

// Match is a palette entry found by a similarity lookup.
type Match struct {
	// Name of the stored palette the entry belongs to.
	Name string
	// Color is the matching palette color.
	Color colorspace.RGB
	// Weight of the matching entry.
	Weight int
	// Distance between the query color and the matching color.
	Distance float64
}

// The index partitions the RGB cube into 16x16x16 cells of edge length 16.
// Each cell holds a bitmap of the palettes that have at least one color in
// it, so a lookup only scans palettes near the query color.
const (
	cellShift = 4
	cellMax   = 255 >> cellShift

	// Lookups wider than this many cells per axis scan all palettes instead.
	fullScanWindow = 8
)

func bucketKey(r, g, b int) uint16 {
	return uint16(r)<<8 | uint16(g)<<4 | uint16(b)
}

func bucket(c colorspace.RGB) uint16 {
	return bucketKey(int(c.R>>cellShift), int(c.G>>cellShift), int(c.B>>cellShift))
}

type indexedPalette struct {
	name    string
	entries []palette.Entry
	buckets []uint16
}

// colorIndex maps color-space cells to the palettes occupying them.
type colorIndex struct {
	mu      sync.RWMutex
	buckets map[uint16]*roaring.Bitmap
	slots   map[uint32]*indexedPalette
	byName  map[string]uint32
	nextID  uint32
}

func newColorIndex() *colorIndex {
	return &colorIndex{
		buckets: make(map[uint16]*roaring.Bitmap),
		slots:   make(map[uint32]*indexedPalette),
		byName:  make(map[string]uint32),
	}
}

// put indexes a palette under name, replacing any previous version.
func (ix *colorIndex) put(name string, p palette.Palette) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(name)

	id := ix.nextID
	ix.nextID++

	entries := make([]palette.Entry, len(p))
	copy(entries, p)

	slot := &indexedPalette{name: name, entries: entries}

	seen := make(map[uint16]struct{}, len(entries))
	for _, e := range entries {
		key := bucket(e.Color)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		slot.buckets = append(slot.buckets, key)

		bm, ok := ix.buckets[key]
		if !ok {
			bm = roaring.New()
			ix.buckets[key] = bm
		}

		bm.Add(id)
	}

	ix.slots[id] = slot
	ix.byName[name] = id
}

// remove drops a palette from the index. Unknown names are a no-op.
func (ix *colorIndex) remove(name string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(name)
}

func (ix *colorIndex) removeLocked(name string) {
	id, ok := ix.byName[name]
	if !ok {
		return
	}

	if slot := ix.slots[id]; slot != nil {
		for _, key := range slot.buckets {
			bm, ok := ix.buckets[key]
			if !ok {
				continue
			}

			bm.Remove(id)

			if bm.IsEmpty() {
				delete(ix.buckets, key)
			}
		}
	}

	delete(ix.slots, id)
	delete(ix.byName, name)
}

// reset drops all indexed palettes.
func (ix *colorIndex) reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.buckets = make(map[uint16]*roaring.Bitmap)
	ix.slots = make(map[uint32]*indexedPalette)
	ix.byName = make(map[string]uint32)
	ix.nextID = 0
}

// size returns the number of indexed palettes.
func (ix *colorIndex) size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.byName)
}

// find returns the closest entry within maxDistance for every candidate
// palette. Candidates come from the cells around the query color; the window
// grows with maxDistance, so looser thresholds trade speed for recall until
// the lookup degrades to a full scan.
func (ix *colorIndex) find(c colorspace.RGB, maxDistance float64, dist distance.Func) []Match {
	if maxDistance < 0 || math.IsNaN(maxDistance) {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	target := c.Lab()

	var matches []Match

	for _, id := range ix.candidatesLocked(c, maxDistance) {
		slot, ok := ix.slots[id]
		if !ok {
			continue
		}

		best := Match{Distance: math.Inf(1)}

		for _, e := range slot.entries {
			d := dist(target, e.Color.Lab())
			if d <= maxDistance && d < best.Distance {
				best = Match{Name: slot.name, Color: e.Color, Weight: e.Weight, Distance: d}
			}
		}

		if !math.IsInf(best.Distance, 1) {
			matches = append(matches, best)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}

		return matches[i].Name < matches[j].Name
	})

	return matches
}

func (ix *colorIndex) candidatesLocked(c colorspace.RGB, maxDistance float64) []uint32 {
	// One cell covers 16 RGB units; a unit of CIEDE2000 distance spans a few
	// RGB units, so the window errs on the wide side to keep recall high.
	window := 1 + int(math.Ceil(maxDistance/4))

	if window >= fullScanWindow {
		ids := make([]uint32, 0, len(ix.slots))
		for id := range ix.slots {
			ids = append(ids, id)
		}

		return ids
	}

	rc := int(c.R >> cellShift)
	gc := int(c.G >> cellShift)
	bc := int(c.B >> cellShift)

	acc := roaring.New()

	for r := max(0, rc-window); r <= min(cellMax, rc+window); r++ {
		for g := max(0, gc-window); g <= min(cellMax, gc+window); g++ {
			for b := max(0, bc-window); b <= min(cellMax, bc+window); b++ {
				if bm, ok := ix.buckets[bucketKey(r, g, b)]; ok {
					acc.Or(bm)
				}
			}
		}
	}

	return acc.ToArray()
}
