package opengraphio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"
)

// responseSchema decodes a body into one Result variant or reports why the
// body does not match that variant.
type responseSchema struct {
	variant Variant
	decode  func([]byte) (*Result, error)
}

// responseSchemas is tried in order; the first match wins. Service payloads
// carry no type discriminator, so a site payload that also has "tags" is
// still a site payload.
var responseSchemas = []responseSchema{
	{variant: VariantSite, decode: decodeSiteInfo},
	{variant: VariantExtract, decode: decodeExtractInfo},
	{variant: VariantScrape, decode: decodeScrapeString},
}

var (
	siteRequiredKeys    = []string{"hybridGraph", "openGraph", "htmlInferred", "requestInfo", "accept_lang", "is_cache", "url"}
	extractRequiredKeys = []string{"tags", "concatenatedText"}
	tagRequiredKeys     = []string{"tag", "innerText", "position"}
)

// Decode turns a response body into a Result. A contentType of text/plain
// (parameters ignored) yields ScrapeInfo; anything else is treated as JSON.
// Either way the body must be valid UTF-8.
func Decode(body []byte, contentType string) (*Result, error) {
	if !utf8.Valid(body) {
		return nil, &DecodeError{Reason: reasonInvalidText}
	}
	if mediaType(contentType) == "text/plain" {
		return decodePlainText(body)
	}

	rejections := make([]error, 0, len(responseSchemas))
	for _, s := range responseSchemas {
		res, err := s.decode(body)
		if err == nil {
			return res, nil
		}
		rejections = append(rejections, fmt.Errorf("%s: %w", s.variant, err))
	}
	return nil, &DecodeError{Reason: reasonNoSchema, Err: errors.Join(rejections...)}
}

func mediaType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func decodePlainText(body []byte) (*Result, error) {
	info := &ScrapeInfo{}
	if len(body) > 0 {
		text := string(body)
		info.Text = &text
	}
	return &Result{Variant: VariantScrape, Scrape: info}, nil
}

func decodeSiteInfo(body []byte) (*Result, error) {
	if _, err := requireKeys(body, siteRequiredKeys); err != nil {
		return nil, err
	}
	var info SiteInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &Result{Variant: VariantSite, Site: &info}, nil
}

func decodeExtractInfo(body []byte) (*Result, error) {
	fields, err := requireKeys(body, extractRequiredKeys)
	if err != nil {
		return nil, err
	}

	var tags []json.RawMessage
	if err := json.Unmarshal(fields["tags"], &tags); err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	for i, raw := range tags {
		if _, err := requireKeys(raw, tagRequiredKeys); err != nil {
			return nil, fmt.Errorf("tags[%d]: %w", i, err)
		}
	}

	var info ExtractInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &Result{Variant: VariantExtract, Extract: &info}, nil
}

func decodeScrapeString(body []byte) (*Result, error) {
	if isJSONNull(body) {
		return nil, errors.New("expected a JSON string, got null")
	}
	var text string
	if err := json.Unmarshal(body, &text); err != nil {
		return nil, err
	}
	return &Result{Variant: VariantScrape, Scrape: &ScrapeInfo{Text: &text}}, nil
}

// requireKeys checks that body is a JSON object holding every key with a
// non-null value, and returns the object's raw fields.
func requireKeys(body []byte, keys []string) (map[string]json.RawMessage, error) {
	if isJSONNull(body) {
		return nil, errors.New("expected a JSON object, got null")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok || isJSONNull(raw) {
			return nil, fmt.Errorf("missing required field %q", key)
		}
	}
	return fields, nil
}

func isJSONNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
