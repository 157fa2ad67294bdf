// Package resolver decides whether a URL belongs to a known site and which
// navigation options apply to it.
package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/samber/lo"
)

// Hybris admin console path prefixes, recognized regardless of configuration.
const (
	HybrisBackoffice = "backoffice"
	HybrisHAC        = "hac"
)

// Kind tells which rule produced a Site.
type Kind string

const (
	KindDomain Kind = "domain"
	KindHybris Kind = "hybris"
)

// Site is the result of resolving a URL. Rule is set for KindDomain; Path and
// URL are set for KindHybris.
type Site struct {
	Kind Kind
	Rule siteconfig.DomainRule
	Path string
	URL  string
}

// Resolve returns the site for u, or nil when u is not supported. Domain rules
// are checked in list order and the first match wins; the hybris prefixes are
// only checked when no rule matched.
func Resolve(u *url.URL, cfg *siteconfig.Config) *Site {
	if u == nil || cfg == nil || cfg.Domains == nil {
		return nil
	}

	if rule, ok := lo.Find(cfg.Domains, func(r siteconfig.DomainRule) bool {
		return matchesRule(u, r)
	}); ok {
		return &Site{Kind: KindDomain, Rule: rule}
	}

	return detectHybris(u)
}

func matchesRule(u *url.URL, rule siteconfig.DomainRule) bool {
	if hostname(u) != rule.DomainName {
		return false
	}
	if len(rule.PossiblePaths) == 0 {
		return true
	}
	first, ok := firstSegment(u)
	return ok && lo.Contains(rule.PossiblePaths, first)
}

func detectHybris(u *url.URL) *Site {
	p := pathname(u)
	if !strings.HasPrefix(p, "/"+HybrisBackoffice) && !strings.HasPrefix(p, "/"+HybrisHAC) {
		return nil
	}
	return &Site{
		Kind: KindHybris,
		Path: strings.Split(p, "/")[1],
		URL:  u.String(),
	}
}

// OptionsFor returns the options offered for site in configuration order. A
// missing cluster or environment yields an empty list.
func OptionsFor(site *Site, cfg *siteconfig.Config) []siteconfig.Option {
	if site == nil {
		return []siteconfig.Option{}
	}
	if site.Kind == KindHybris {
		return hybrisOptions(site)
	}
	return configOptions(site.Rule, cfg)
}

func hybrisOptions(site *Site) []siteconfig.Option {
	u, err := url.Parse(site.URL)
	if err != nil {
		return []siteconfig.Option{}
	}
	origin := u.Scheme + "://" + u.Host
	switch site.Path {
	case HybrisBackoffice:
		return []siteconfig.Option{{Title: "Go to HAC", URL: origin + "/" + HybrisHAC}}
	case HybrisHAC:
		return []siteconfig.Option{{Title: "Go to Backoffice", URL: origin + "/" + HybrisBackoffice}}
	}
	return []siteconfig.Option{}
}

func configOptions(rule siteconfig.DomainRule, cfg *siteconfig.Config) []siteconfig.Option {
	if cfg == nil || cfg.Clusters == nil {
		return []siteconfig.Option{}
	}
	cluster, ok := lo.Find(cfg.Clusters, func(c siteconfig.Cluster) bool { return c.ID == rule.Cluster })
	if !ok {
		return []siteconfig.Option{}
	}
	env, ok := lo.Find(cluster.Envs, func(e siteconfig.Env) bool { return e.ID == rule.Env })
	if !ok || env.Options == nil {
		return []siteconfig.Option{}
	}
	return env.Options
}

// hostname is the lowercased host without port, as a browser reports it.
func hostname(u *url.URL) string {
	return strings.ToLower(u.Hostname())
}

func pathname(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" && u.Host != "" {
		return "/"
	}
	return p
}

func firstSegment(u *url.URL) (string, bool) {
	for _, seg := range strings.Split(pathname(u), "/") {
		if seg != "" {
			return seg, true
		}
	}
	return "", false
}

// ParseURL parses a tab URL. Only absolute URLs are accepted.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("invalid URL %q: missing scheme", raw)
	}
	return u, nil
}
