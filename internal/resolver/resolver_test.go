package resolver

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func mustConfig(t *testing.T, raw string) *siteconfig.Config {
	t.Helper()
	cfg, err := siteconfig.Decode(json.RawMessage(raw))
	require.NoError(t, err)
	return cfg
}

const scenarioConfig = `{
	"domains": [{"domain_name": "a.com", "cluster": "c1", "env": "e1"}],
	"clusters": [{"id": "c1", "envs": [{"id": "e1", "options": [{"title": "Admin", "url": "https://a.com/admin"}]}]}]
}`

func TestResolveScenario(t *testing.T) {
	cfg := mustConfig(t, scenarioConfig)

	site := Resolve(mustParse(t, "https://a.com/"), cfg)
	require.NotNil(t, site)
	assert.Equal(t, KindDomain, site.Kind)
	assert.Equal(t, []siteconfig.Option{{Title: "Admin", URL: "https://a.com/admin"}}, OptionsFor(site, cfg))
}

func TestResolveUnrestrictedDomainMatchesAnyPath(t *testing.T) {
	cfg := mustConfig(t, scenarioConfig)
	for _, raw := range []string{"https://a.com", "https://a.com/", "https://a.com/x/y?q=1", "http://a.com:8080/deep/path"} {
		t.Run(raw, func(t *testing.T) {
			site := Resolve(mustParse(t, raw), cfg)
			require.NotNil(t, site)
			assert.Equal(t, "a.com", site.Rule.DomainName)
		})
	}
}

func TestResolvePossiblePaths(t *testing.T) {
	cfg := mustConfig(t, `{"domains": [{"domain_name": "a.com", "possible_paths": ["x"], "cluster": "c1", "env": "e1"}]}`)

	tests := []struct {
		url      string
		resolves bool
	}{
		{"https://a.com/x", true},
		{"https://a.com/x/y", true},
		{"https://a.com//x/y", true},
		{"https://a.com/y", false},
		{"https://a.com/", false},
		{"https://a.com", false},
		{"https://a.com/xy", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			site := Resolve(mustParse(t, tt.url), cfg)
			assert.Equal(t, tt.resolves, site != nil)
		})
	}
}

func TestResolveExactHostname(t *testing.T) {
	cfg := mustConfig(t, scenarioConfig)
	assert.Nil(t, Resolve(mustParse(t, "https://sub.a.com/"), cfg))
	assert.Nil(t, Resolve(mustParse(t, "https://a.com.evil/"), cfg))
	assert.NotNil(t, Resolve(mustParse(t, "https://A.COM/"), cfg), "hostnames are lowercased like a browser does")
}

func TestResolveFirstMatchWins(t *testing.T) {
	cfg := mustConfig(t, `{"domains": [
		{"domain_name": "a.com", "possible_paths": ["x"], "cluster": "first", "env": "e"},
		{"domain_name": "a.com", "cluster": "second", "env": "e"},
		{"domain_name": "a.com", "cluster": "third", "env": "e"}
	]}`)

	assert.Equal(t, "first", Resolve(mustParse(t, "https://a.com/x"), cfg).Rule.Cluster.String())
	assert.Equal(t, "second", Resolve(mustParse(t, "https://a.com/y"), cfg).Rule.Cluster.String())
}

func TestResolveMissingConfig(t *testing.T) {
	u := mustParse(t, "https://host/backoffice")
	assert.Nil(t, Resolve(u, nil))
	assert.Nil(t, Resolve(u, &siteconfig.Config{}), "absent domains list short-circuits before the hybris check")
	assert.NotNil(t, Resolve(u, &siteconfig.Config{Domains: []siteconfig.DomainRule{}}))
}

func TestResolveHybrisBackoffice(t *testing.T) {
	cfg := mustConfig(t, `{"domains": []}`)

	site := Resolve(mustParse(t, "https://host/backoffice/x"), cfg)
	require.NotNil(t, site)
	assert.Equal(t, KindHybris, site.Kind)
	assert.Equal(t, HybrisBackoffice, site.Path)
	assert.Equal(t, "https://host/backoffice/x", site.URL)
	assert.Equal(t, []siteconfig.Option{{Title: "Go to HAC", URL: "https://host/hac"}}, OptionsFor(site, cfg))
}

func TestResolveHybrisHAC(t *testing.T) {
	cfg := mustConfig(t, `{"domains": []}`)

	site := Resolve(mustParse(t, "https://host:9002/hac/monitoring?x=1"), cfg)
	require.NotNil(t, site)
	assert.Equal(t, HybrisHAC, site.Path)
	assert.Equal(t, []siteconfig.Option{{Title: "Go to Backoffice", URL: "https://host:9002/backoffice"}}, OptionsFor(site, cfg))
}

func TestResolveHybrisUnknownPathHasNoOptions(t *testing.T) {
	cfg := mustConfig(t, `{"domains": []}`)

	site := Resolve(mustParse(t, "https://host/backofficeX"), cfg)
	require.NotNil(t, site)
	assert.Equal(t, "backofficeX", site.Path)
	assert.Empty(t, OptionsFor(site, cfg))
}

func TestResolveDomainRuleBeatsHybris(t *testing.T) {
	cfg := mustConfig(t, scenarioConfig)
	site := Resolve(mustParse(t, "https://a.com/backoffice"), cfg)
	require.NotNil(t, site)
	assert.Equal(t, KindDomain, site.Kind)
}

func TestResolveUnsupported(t *testing.T) {
	cfg := mustConfig(t, scenarioConfig)
	assert.Nil(t, Resolve(mustParse(t, "https://b.com/admin"), cfg))
}

func TestOptionsForMissingIDs(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
	}{
		{"missing cluster", `{"domains": [{"domain_name": "a.com", "cluster": "nope", "env": "e1"}], "clusters": [{"id": "c1", "envs": []}]}`},
		{"missing env", `{"domains": [{"domain_name": "a.com", "cluster": "c1", "env": "nope"}], "clusters": [{"id": "c1", "envs": [{"id": "e1", "options": [{"title": "A", "url": "u"}]}]}]}`},
		{"no clusters", `{"domains": [{"domain_name": "a.com", "cluster": "c1", "env": "e1"}]}`},
		{"no options", `{"domains": [{"domain_name": "a.com", "cluster": "c1", "env": "e1"}], "clusters": [{"id": "c1", "envs": [{"id": "e1"}]}]}`},
		{"id type mismatch", `{"domains": [{"domain_name": "a.com", "cluster": "1", "env": "e1"}], "clusters": [{"id": 1, "envs": [{"id": "e1", "options": [{"title": "A", "url": "u"}]}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustConfig(t, tt.cfg)
			site := Resolve(mustParse(t, "https://a.com/"), cfg)
			require.NotNil(t, site)
			options := OptionsFor(site, cfg)
			assert.NotNil(t, options)
			assert.Empty(t, options)
		})
	}
}

func TestOptionsKeepConfigurationOrder(t *testing.T) {
	cfg := mustConfig(t, `{
		"domains": [{"domain_name": "a.com", "cluster": "c1", "env": "e1"}],
		"clusters": [{"id": "c1", "envs": [{"id": "e1", "options": [
			{"title": "Z", "url": "https://z"},
			{"title": "A", "url": "https://a"},
			{"title": "Z", "url": "https://z"}
		]}]}]
	}`)
	options := OptionsFor(Resolve(mustParse(t, "https://a.com/"), cfg), cfg)
	require.Len(t, options, 3)
	assert.Equal(t, "Z", options[0].Title)
	assert.Equal(t, "A", options[1].Title)
	assert.Equal(t, "Z", options[2].Title)
}

func TestOptionsForNilSite(t *testing.T) {
	assert.Empty(t, OptionsFor(nil, &siteconfig.Config{}))
}

func TestParseURL(t *testing.T) {
	u, err := ParseURL("https://shop.example.com/de/cart")
	require.NoError(t, err)
	assert.Equal(t, "shop.example.com", u.Host)

	_, err = ParseURL("shop.example.com/de")
	assert.Error(t, err)

	_, err = ParseURL("http://[::1")
	assert.Error(t, err)
}
