package app

import (
	"net/url"
	"strings"
)

const (
	binaryParametersKey  = "binary_parameters"
	maxTracedQueryLength = 512
)

// postgresDSN is DB_URL as configured: a postgres:// URL or lib/pq
// key=value pairs.
type postgresDSN string

func (d postgresDSN) url() (*url.URL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(string(d)))
	if err != nil || parsed.Scheme == "" {
		return nil, false
	}
	return parsed, true
}

func (d postgresDSN) keyword(key string) (string, bool) {
	for _, pair := range strings.Fields(string(d)) {
		k, v, found := strings.Cut(pair, "=")
		if found && k == key {
			return strings.Trim(v, `"'`), true
		}
	}
	return "", false
}

// withBinaryParameters sets binary_parameters=yes so lib/pq sends
// parameters without a prepare round trip. An explicit value is kept.
func (d postgresDSN) withBinaryParameters() postgresDSN {
	if u, ok := d.url(); ok {
		query := u.Query()
		if query.Has(binaryParametersKey) {
			return d
		}
		query.Set(binaryParametersKey, "yes")
		u.RawQuery = query.Encode()
		return postgresDSN(u.String())
	}
	if _, ok := d.keyword(binaryParametersKey); ok {
		return d
	}
	return postgresDSN(strings.TrimSpace(string(d)) + " " + binaryParametersKey + "=yes")
}

// database is the name recorded as db.name on spans.
func (d postgresDSN) database() string {
	if u, ok := d.url(); ok {
		return strings.TrimPrefix(u.Path, "/")
	}
	name, _ := d.keyword("dbname")
	return name
}

// traceQuery is the SQL text put on db spans, single-spaced and capped.
func traceQuery(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) > maxTracedQueryLength {
		return compact[:maxTracedQueryLength] + "..."
	}
	return compact
}
