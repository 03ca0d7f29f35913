package sitemap

import "testing"

func TestSameRegistrableDomain(t *testing.T) {
	cases := []struct {
		candidate string
		target    string
		want      bool
	}{
		{"https://www.example.com/a", "example.com", true},
		{"https://blog.example.com/a", "example.com", true},
		{"https://example.com/a", "https://www.example.com", true},
		{"https://evil-example.com/a", "example.com", false},
		{"https://other.org/a", "example.com", false},
	}
	for _, c := range cases {
		if got := SameRegistrableDomain(c.candidate, c.target); got != c.want {
			t.Errorf("SameRegistrableDomain(%q, %q) = %v, want %v", c.candidate, c.target, got, c.want)
		}
	}
}

func TestParseURLSet(t *testing.T) {
	body := `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc><lastmod>2024-01-01</lastmod></url>
  <url><loc>https://other.org/b</loc></url>
</urlset>`
	result := Parse(body, "example.com")
	if len(result.URLs) != 1 {
		t.Fatalf("expected 1 same-domain url, got %d", len(result.URLs))
	}
	if result.URLs[0].Loc != "https://example.com/a" {
		t.Errorf("unexpected loc: %s", result.URLs[0].Loc)
	}
}

func TestParseSitemapIndex(t *testing.T) {
	body := `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-posts.xml</loc></sitemap>
</sitemapindex>`
	result := Parse(body, "example.com")
	if len(result.SubSitemaps) != 1 {
		t.Fatalf("expected 1 sub-sitemap, got %d", len(result.SubSitemaps))
	}
}

func TestParseMalformedXML(t *testing.T) {
	result := Parse("<urlset><url><loc>not closed", "example.com")
	if len(result.URLs) != 0 || len(result.SubSitemaps) != 0 {
		t.Fatalf("expected empty result for malformed xml, got %+v", result)
	}
}

func TestExtractRobotsSitemaps(t *testing.T) {
	body := "User-agent: *\nDisallow: /admin\nSitemap: https://example.com/sitemap.xml\nSitemap: https://example.com/sitemap2.xml\n"
	got := extractRobotsSitemaps(body)
	if len(got) != 2 {
		t.Fatalf("expected 2 sitemaps, got %d: %v", len(got), got)
	}
}
