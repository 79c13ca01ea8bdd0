package router

import (
	"net/url"
	"strings"

	"github.com/DukeRupert/kuidash/internal/domain"
)

// matcher is one matchable route: a leaf record with its parent chain.
type matcher struct {
	chain    []domain.RouteRecord
	segments []string
	static   bool
}

func newMatcher(chain []domain.RouteRecord) matcher {
	leaf := chain[len(chain)-1]
	segments := splitPath(leaf.Path)
	static := true
	for _, s := range segments {
		if strings.HasPrefix(s, ":") {
			static = false
			break
		}
	}
	return matcher{chain: chain, segments: segments, static: static}
}

func (m matcher) leaf() domain.RouteRecord {
	return m.chain[len(m.chain)-1]
}

// match reports whether path matches and returns the extracted parameters.
func (m matcher) match(segments []string) (map[string]string, bool) {
	if len(segments) != len(m.segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, s := range m.segments {
		if name, ok := strings.CutPrefix(s, ":"); ok {
			if segments[i] == "" {
				return nil, false
			}
			params[name] = segments[i]
			continue
		}
		if s != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// build renders the matcher path with the given parameters.
func (m matcher) build(params map[string]string) (string, bool) {
	out := make([]string, len(m.segments))
	for i, s := range m.segments {
		if name, ok := strings.CutPrefix(s, ":"); ok {
			v, found := params[name]
			if !found || v == "" {
				return "", false
			}
			out[i] = url.PathEscape(v)
			continue
		}
		out[i] = s
	}
	return "/" + strings.Join(out, "/"), true
}

func splitPath(p string) []string {
	p = strings.Trim(domain.CleanPath(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// unescapeSegments decodes escaped path segments. Splitting happens before
// decoding so "%2F" and "%3F" stay inside their segment.
func unescapeSegments(segments []string) ([]string, error) {
	for i, s := range segments {
		v, err := url.PathUnescape(s)
		if err != nil {
			return nil, err
		}
		segments[i] = v
	}
	return segments, nil
}

// flatten walks the route tree depth first, parents before children.
func flatten(routes []domain.Route, parentPath string, parents []domain.RouteRecord, out []matcher) []matcher {
	for _, r := range routes {
		rec := domain.RouteRecord{
			Name: r.Name,
			Path: domain.JoinPath(parentPath, r.Path),
			Meta: r.Meta,
		}
		chain := make([]domain.RouteRecord, 0, len(parents)+1)
		chain = append(chain, parents...)
		chain = append(chain, rec)

		out = append(out, newMatcher(chain))
		out = flatten(r.Children, rec.Path, chain, out)
	}
	return out
}
