package fetcher_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicornmarketers/pageforge/internal/fetcher"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Acme</title><style>.x{}</style></head>
			<body><nav>Home About</nav><h1>Acme Widgets</h1><p>We make widgets.</p>
			<script>console.log("hi")</script><footer>© Acme</footer></body></html>`))
	}))
	defer server.Close()

	f := fetcher.New(fetcher.Config{}, logger.NewNop())

	page, fetchErr := f.Fetch(t.Context(), server.URL)

	require.NoError(t, fetchErr)
	assert.Equal(t, server.URL, page.URL)
	assert.Contains(t, page.HTML, "<h1>Acme Widgets</h1>")
	assert.Contains(t, page.Text, "Acme Widgets")
	assert.Contains(t, page.Text, "We make widgets.")
	assert.NotContains(t, page.Text, "console.log")
	assert.NotContains(t, page.Text, "© Acme")
}

func TestFetcher_Fetch_SetsUserAgent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	f := fetcher.New(fetcher.Config{UserAgent: "TestBot/1.0"}, logger.NewNop())

	_, fetchErr := f.Fetch(t.Context(), server.URL)

	require.NoError(t, fetchErr)
	assert.Equal(t, "TestBot/1.0", gotUserAgent)
}

func TestFetcher_Fetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := fetcher.New(fetcher.Config{}, logger.NewNop())

	_, fetchErr := f.Fetch(t.Context(), server.URL)

	require.Error(t, fetchErr)
	assert.Contains(t, fetchErr.Error(), "unexpected status 404")
}

func TestFetcher_Fetch_Unreachable(t *testing.T) {
	f := fetcher.New(fetcher.Config{}, logger.NewNop())

	_, fetchErr := f.Fetch(t.Context(), "http://127.0.0.1:1")

	require.Error(t, fetchErr)
}

func TestExtractText_CapsLength(t *testing.T) {
	longBody := strings.Repeat("lorem ipsum dolor sit amet ", 2000)
	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>" + longBody + "</p></body></html>"))
	require.NoError(t, parseErr)

	text := fetcher.ExtractText(doc)

	assert.LessOrEqual(t, len(text), 30000)
}

func TestRelevantLinks(t *testing.T) {
	html := `<html><body>
		<a href="/about">About us</a>
		<a href="/products/widgets">Widgets</a>
		<a href="/testimonials">Reviews</a>
		<a href="/blog/post-1">Blog</a>
		<a href="/careers">Careers</a>
		<a href="https://other.example.com/about">External</a>
		<a href="/brochure.pdf">Brochure</a>
		<a href="mailto:hi@acme.example.com">Email</a>
		<a href="/about">About duplicate</a>
	</body></html>`

	links := fetcher.RelevantLinks(html, "https://acme.example.com", 4)

	assert.Equal(t, []string{
		"https://acme.example.com/about",
		"https://acme.example.com/products/widgets",
		"https://acme.example.com/testimonials",
	}, links)
}

func TestRelevantLinks_RespectsMax(t *testing.T) {
	html := `<html><body>
		<a href="/about">a</a>
		<a href="/products">b</a>
		<a href="/pricing">c</a>
		<a href="/team">d</a>
	</body></html>`

	links := fetcher.RelevantLinks(html, "https://acme.example.com", 2)

	assert.Len(t, links, 2)
}

func TestRelevantLinks_BadBaseURL(t *testing.T) {
	links := fetcher.RelevantLinks(`<a href="/about">a</a>`, "not a url", 4)

	assert.Nil(t, links)
}
