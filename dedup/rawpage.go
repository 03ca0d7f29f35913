package dedup

import (
	"github.com/use-agent/ragforge/simhash"
)

// rawPageSimilarityDistance is the Hamming-distance threshold below which
// two fetched pages are considered structurally near-identical (e.g. the
// same page reached via two sitemap entries, or a tracking-parameter
// variant URL). This runs on raw HTML before extraction, complementing the
// chunk-level Jaccard pass which only ever sees already-extracted text.
const rawPageSimilarityDistance = 3

// RawPageFingerprint computes a DOM-structure fingerprint for a fetched
// page's raw HTML.
func RawPageFingerprint(rawHTML string) uint64 {
	return simhash.FingerprintDOM(rawHTML)
}

// RawPageDedup flags pages in fetchOrder whose DOM fingerprint is
// near-identical to an earlier page's, returning the URLs that should be
// skipped before extraction runs. fingerprints maps url -> fingerprint for
// every page in fetchOrder.
func RawPageDedup(fetchOrder []string, fingerprints map[string]uint64) (skip map[string]string) {
	skip = make(map[string]string)
	var seen []string
	for _, url := range fetchOrder {
		fp, ok := fingerprints[url]
		if !ok {
			continue
		}
		dup := false
		for _, priorURL := range seen {
			if simhash.Similar(fp, fingerprints[priorURL], rawPageSimilarityDistance) {
				skip[url] = priorURL
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, url)
		}
	}
	return skip
}
