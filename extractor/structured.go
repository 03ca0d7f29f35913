package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/ragforge/models"
)

// harvestStructuredData collects JSON-LD, Schema.org microdata, OpenGraph,
// and Twitter Card metadata from the full document (not just main content,
// since this metadata usually lives in <head>).
func harvestStructuredData(doc *goquery.Document) *models.StructuredData {
	sd := &models.StructuredData{
		OpenGraph:   map[string]string{},
		TwitterCard: map[string]string{},
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &parsed); err == nil {
			sd.JSONLD = append(sd.JSONLD, parsed)
		}
	})

	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		// Every itemscope, nested or not, gets its own independent entry.
		sd.SchemaOrg = append(sd.SchemaOrg, extractSchemaOrgEntry(s))
	})

	doc.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		key := strings.TrimPrefix(prop, "og:")
		if key != "" {
			sd.OpenGraph[key] = content
		}
	})

	doc.Find(`meta[name^="twitter:"], meta[property^="twitter:"]`).Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			name, _ = s.Attr("property")
		}
		content, _ := s.Attr("content")
		key := strings.TrimPrefix(name, "twitter:")
		if key != "" {
			sd.TwitterCard[key] = content
		}
	})

	if len(sd.JSONLD) == 0 && len(sd.SchemaOrg) == 0 && len(sd.OpenGraph) == 0 && len(sd.TwitterCard) == 0 {
		return nil
	}
	return sd
}

func extractSchemaOrgEntry(s *goquery.Selection) models.SchemaOrgEntry {
	entry := models.SchemaOrgEntry{Properties: map[string]string{}}
	if itemtype, ok := s.Attr("itemtype"); ok {
		parts := strings.Split(itemtype, "/")
		entry.Type = parts[len(parts)-1]
	}

	s.Find("[itemprop]").Each(func(_ int, prop *goquery.Selection) {
		// Skip props belonging to a nested itemscope.
		if owner := prop.Parent().Closest("[itemscope]"); owner.Length() == 0 || owner.Get(0) != s.Get(0) {
			return
		}
		name, _ := prop.Attr("itemprop")
		if name == "" {
			return
		}
		entry.Properties[name] = schemaPropValue(prop)
	})
	return entry
}

func schemaPropValue(s *goquery.Selection) string {
	tag := goquery.NodeName(s)
	switch tag {
	case "meta":
		v, _ := s.Attr("content")
		return v
	case "link":
		v, _ := s.Attr("href")
		return v
	case "img", "video":
		v, _ := s.Attr("src")
		return v
	case "time":
		v, ok := s.Attr("datetime")
		if ok {
			return v
		}
	case "data":
		v, ok := s.Attr("value")
		if ok {
			return v
		}
	}
	return strings.TrimSpace(s.Text())
}
