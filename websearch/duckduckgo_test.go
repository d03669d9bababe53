package websearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddgSamplePage = `
<div class="result results_links results_links_deep web-result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fduet.ac.bd%2Fnotice&amp;rut=abc">DUET <b>Notice</b> Board</a>
  </h2>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fduet.ac.bd%2Fnotice">Latest <b>notices</b> from DUET, Gazipur.</a>
</div>
<div class="result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="https://duet.ac.bd/admission">Admission</a>
  </h2>
  <a class="result__snippet" href="https://duet.ac.bd/admission">ভর্তি তথ্য</a>
</div>
`

func TestParseDuckDuckGoHTML(t *testing.T) {
	results := parseDuckDuckGoHTML(ddgSamplePage, 10)
	require.Len(t, results, 2)

	assert.Equal(t, "https://duet.ac.bd/notice", results[0].URL)
	assert.Equal(t, "DUET Notice Board", results[0].Title)
	assert.Equal(t, "Latest notices from DUET, Gazipur.", results[0].Snippet)

	assert.Equal(t, "https://duet.ac.bd/admission", results[1].URL)
	assert.Equal(t, "ভর্তি তথ্য", results[1].Snippet)
}

func TestParseDuckDuckGoHTML_RespectsLimit(t *testing.T) {
	results := parseDuckDuckGoHTML(ddgSamplePage, 1)
	assert.Len(t, results, 1)
}

func TestParseDuckDuckGoHTML_EmptyPage(t *testing.T) {
	assert.Empty(t, parseDuckDuckGoHTML("<html><body>no results</body></html>", 10))
}

func TestResolveDuckDuckGoURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"redirect link",
			"//duckduckgo.com/l/?uddg=https%3A%2F%2Fduet.ac.bd%2Fnotice&rut=abc",
			"https://duet.ac.bd/notice",
		},
		{"direct link", "https://duet.ac.bd/admission", "https://duet.ac.bd/admission"},
		{"javascript link rejected", "javascript:void(0)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveDuckDuckGoURL(tt.raw))
		})
	}
}

func TestProviderAvailability(t *testing.T) {
	assert.False(t, NewSerperProvider("", nil).Available())
	assert.True(t, NewSerperProvider("key", nil).Available())

	assert.False(t, NewGoogleCSEProvider("", "", nil).Available())
	assert.False(t, NewGoogleCSEProvider("key", "", nil).Available())
	assert.True(t, NewGoogleCSEProvider("key", "cx", nil).Available())

	assert.True(t, NewDuckDuckGoProvider(nil).Available())
}
