// Package store persists extracted palettes and answers color similarity
// lookups across them.
//
// A Store wraps a Backend (local filesystem, in-memory, S3 or MinIO) and
// writes palettes as self-describing blobs: a small header records the codec
// and compression, followed by the optionally compressed payload. Blobs
// written with one configuration load fine under another.
//
// # Quick Start
//
//	backend, err := store.NewLocal("palettes")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	st, err := store.New(backend)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := st.Save(ctx, "sunset.json", p); err != nil {
//		log.Fatal(err)
//	}
//
//	// Which stored palettes contain something close to this orange?
//	for _, m := range st.FindSimilar(colorspace.RGB{R: 255, G: 140, B: 0}, 10) {
//		fmt.Println(m.Name, m.Color.Hex(), m.Distance)
//	}
//
// # Similarity Index
//
// Save feeds an in-memory index that partitions the RGB cube into cells and
// tracks which palettes occupy each cell. FindSimilar scans only the cells
// around the query color, so lookups stay fast as the store grows. The index
// only knows about palettes saved in this process; after attaching to a
// backend with existing palettes, call Rebuild to load them.
package store
