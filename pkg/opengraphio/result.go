package opengraphio

// Variant names which response shape a Result holds.
type Variant string

const (
	VariantSite    Variant = "site"
	VariantExtract Variant = "extract"
	VariantScrape  Variant = "scrape"
)

// Result holds exactly one decoded response shape, named by Variant.
type Result struct {
	Variant Variant      `json:"variant"`
	Site    *SiteInfo    `json:"site,omitempty"`
	Extract *ExtractInfo `json:"extract,omitempty"`
	Scrape  *ScrapeInfo  `json:"scrape,omitempty"`
}

// SiteInfo is the "site" service answer: three metadata graphs side by side.
// Top-level keys must match exactly for a body to count as SiteInfo; keys
// inside the graphs follow encoding/json and match case-insensitively.
type SiteInfo struct {
	HybridGraph    HybridGraph  `json:"hybridGraph"`
	OpenGraph      OpenGraph    `json:"openGraph"`
	HTMLInferred   HTMLInferred `json:"htmlInferred"`
	RequestInfo    RequestInfo  `json:"requestInfo"`
	AcceptLanguage string       `json:"accept_lang"`
	IsCache        bool         `json:"is_cache"`
	URL            string       `json:"url"`
}

// HybridGraph merges Open Graph tags with values inferred from the HTML.
type HybridGraph struct {
	Title                *string `json:"title,omitempty"`
	Description          *string `json:"description,omitempty"`
	Type                 *string `json:"type,omitempty"`
	Image                *string `json:"image,omitempty"`
	URL                  *string `json:"url,omitempty"`
	Favicon              *string `json:"favicon,omitempty"`
	SiteName             *string `json:"site_name,omitempty"`
	ArticlePublishedTime *string `json:"articlePublishedTime,omitempty"`
	ArticleAuthor        *string `json:"articleAuthor,omitempty"`
}

// OpenGraph holds the page's literal og: tags.
type OpenGraph struct {
	Title                *string         `json:"title,omitempty"`
	Description          *string         `json:"description,omitempty"`
	Type                 *string         `json:"type,omitempty"`
	Image                *OpenGraphImage `json:"image,omitempty"`
	URL                  *string         `json:"url,omitempty"`
	SiteName             *string         `json:"site_name,omitempty"`
	ArticlePublishedTime *string         `json:"articlePublishedTime,omitempty"`
	ArticleAuthor        *string         `json:"articleAuthor,omitempty"`
}

// OpenGraphImage is the og:image object; only its URL is read.
type OpenGraphImage struct {
	URL *string `json:"url,omitempty"`
}

// HTMLInferred holds values guessed from the page markup alone.
type HTMLInferred struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Image       *string   `json:"image,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Favicon     *string   `json:"favicon,omitempty"`
	SiteName    *string   `json:"site_name,omitempty"`
	Images      []*string `json:"images,omitempty"`
}

// RequestInfo echoes diagnostics about how the service fetched the page.
type RequestInfo struct {
	Redirects           *int    `json:"redirects,omitempty"`
	Host                *string `json:"host,omitempty"`
	ResponseCode        *int    `json:"responseCode,omitempty"`
	CacheOK             *bool   `json:"cache_ok,omitempty"`
	MaxCacheAge         *int    `json:"max_cache_age,omitempty"`
	AcceptLanguage      *string `json:"accept_lang,omitempty"`
	URL                 *string `json:"url,omitempty"`
	FullRender          *bool   `json:"fullRender,omitempty"`
	UseProxy            *bool   `json:"useProxy,omitempty"`
	UseSuperior         *bool   `json:"useSuperior,omitempty"`
	ResponseContentType *string `json:"responseContentType,omitempty"`
}

// ExtractInfo is the "extract" service answer.
type ExtractInfo struct {
	Tags             []Tag  `json:"tags"`
	ConcatenatedText string `json:"concatenatedText"`
}

// Tag is one extracted element, in document order.
type Tag struct {
	Tag       string `json:"tag"`
	InnerText string `json:"innerText"`
	Position  int    `json:"position"`
}

// ScrapeInfo is the "scrape" service answer: the raw page text, possibly absent.
type ScrapeInfo struct {
	Text *string `json:"text"`
}
