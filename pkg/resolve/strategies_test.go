package resolve

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func parseJSON(t *testing.T, l []string) Document {
	t.Helper()
	doc, err := ParseDocument(l, FormatJSON)
	require.NoError(t, err)
	return doc
}

func TestResolveManifest(t *testing.T) {
	t.Run("union of new dependencies", func(t *testing.T) {
		res := ResolveManifest(Input{
			Path:   "package.json",
			Ours:   lines(`{"name": "app", "dependencies": {"react": "^18.2.0", "lodash": "4.17.21"}}`),
			Theirs: lines(`{"name": "app", "dependencies": {"react": "^18.2.0", "axios": "1.6.0"}}`),
		})

		require.True(t, res.Resolved())
		assert.Equal(t, 0.9, res.Confidence)

		deps := parseJSON(t, res.Lines)["dependencies"].(map[string]any)
		assert.Equal(t, "4.17.21", deps["lodash"])
		assert.Equal(t, "1.6.0", deps["axios"])
		assert.Equal(t, "^18.2.0", deps["react"])
	})

	t.Run("same dependency picks numerically higher version", func(t *testing.T) {
		res := ResolveManifest(Input{
			Ours:   lines(`{"devDependencies": {"jest": "1.2.0"}}`),
			Theirs: lines(`{"devDependencies": {"jest": "1.10.0"}}`),
		})

		require.True(t, res.Resolved())
		deps := parseJSON(t, res.Lines)["devDependencies"].(map[string]any)
		assert.Equal(t, "1.10.0", deps["jest"])
	})

	t.Run("base dependencies are kept", func(t *testing.T) {
		res := ResolveManifest(Input{
			Ours:   lines(`{"dependencies": {"a": "1.0.0"}}`),
			Theirs: lines(`{"dependencies": {"b": "1.0.0"}}`),
			Base:   lines(`{"dependencies": {"c": "0.1.0"}, "license": "MIT"}`),
		})

		doc := parseJSON(t, res.Lines)
		deps := doc["dependencies"].(map[string]any)
		assert.Len(t, deps, 3)
		assert.Equal(t, "MIT", doc["license"])
	})

	t.Run("other keys prefer ours and fall back to theirs", func(t *testing.T) {
		res := ResolveManifest(Input{
			Ours:   lines(`{"version": "2.0.0", "scripts": {"test": "jest && lint"}}`),
			Theirs: lines(`{"version": "1.5.0", "private": true}`),
		})

		doc := parseJSON(t, res.Lines)
		assert.Equal(t, "2.0.0", doc["version"])
		assert.Equal(t, true, doc["private"])
		assert.Equal(t, "jest && lint", doc["scripts"].(map[string]any)["test"])
	})

	t.Run("merging ours with ours is idempotent", func(t *testing.T) {
		ours := lines(`{
  "name": "app",
  "version": "1.0.0",
  "dependencies": {"react": "^18.2.0"},
  "devDependencies": {"vite": "5.0.0"},
  "workspaces": ["a", "b"],
  "size": 12
}`)
		res := ResolveManifest(Input{Ours: ours, Theirs: ours})

		require.True(t, res.Resolved())
		assert.Equal(t, parseJSON(t, ours), parseJSON(t, res.Lines))
	})

	t.Run("unparseable side fails", func(t *testing.T) {
		res := ResolveManifest(Input{
			Ours:   lines(`  "react": "^18.2.0",`),
			Theirs: lines(`{"dependencies": {}}`),
		})

		assert.False(t, res.Resolved())
		assert.Zero(t, res.Confidence)
		assert.Contains(t, res.Explanation, "Failed to parse")
	})
}

func TestResolveLockFile(t *testing.T) {
	res := ResolveLockFile(Input{Path: "web/yarn.lock", Ours: []string{"a"}, Theirs: []string{"b"}})

	assert.False(t, res.Resolved())
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, ActionRegenerate, res.Action)
	assert.Equal(t, "yarn install", res.Command)
	assert.True(t, res.Usable())

	res = ResolveLockFile(Input{Path: "package-lock.json"})
	assert.Equal(t, "npm install", res.Command)
}

func TestResolveChangelog(t *testing.T) {
	res := ResolveChangelog(Input{
		Ours: []string{
			"## [1.2.0]",
			"- ours feature",
			"## [1.0.0]",
			"- initial",
		},
		Theirs: []string{
			"## [1.3.0]",
			"- theirs feature",
		},
	})

	require.True(t, res.Resolved())
	assert.Equal(t, 0.7, res.Confidence)
	assert.Equal(t, []string{
		"## [1.3.0]",
		"- theirs feature",
		"## [1.2.0]",
		"- ours feature",
		"## [1.0.0]",
		"- initial",
	}, res.Lines)
}

func TestResolveChangelogKeepsUndatedEntriesInPlace(t *testing.T) {
	res := ResolveChangelog(Input{
		Ours:   []string{"intro text", "## 2024-01-02", "- a"},
		Theirs: []string{"## 2024-03-01", "- b"},
	})

	assert.Equal(t, []string{
		"intro text",
		"## 2024-03-01",
		"- b",
		"## 2024-01-02",
		"- a",
	}, res.Lines)
}

func TestResolveImports(t *testing.T) {
	ours := []string{"import a from 'x'", "import b from './y'"}
	theirs := []string{"import a from 'x'"}

	res := ResolveImports(Input{Ours: ours, Theirs: theirs})

	require.True(t, res.Resolved())
	assert.Equal(t, 0.95, res.Confidence)
	assert.Equal(t, []string{"import a from 'x'", "import b from './y'"}, res.Lines)
	assert.Equal(t, []string{"import a from 'x'", "import b from './y'"}, ours, "input must not change")
}

func TestResolveImportsOrdering(t *testing.T) {
	res := ResolveImports(Input{
		Ours:   []string{"import z from '../z'", "  import react from 'react'"},
		Theirs: []string{"import axios from 'axios'", "import c from './c'", "const x = 1"},
	})

	assert.Equal(t, []string{
		"import axios from 'axios'",
		"import react from 'react'",
		"import c from './c'",
		"import z from '../z'",
	}, res.Lines)
}

func TestResolveVersion(t *testing.T) {
	res := ResolveVersion(Input{
		Ours:   []string{`  "version": "1.2.0",`},
		Theirs: []string{`  "version": "1.10.0",`},
	})

	require.True(t, res.Resolved())
	assert.Equal(t, 0.8, res.Confidence)
	assert.Equal(t, []string{`  "version": "1.10.0",`}, res.Lines)
	assert.Contains(t, res.Explanation, "1.10.0")
}

func TestResolveVersionKeepsOursOnTie(t *testing.T) {
	res := ResolveVersion(Input{
		Ours:   []string{`version: '2.0'`},
		Theirs: []string{`version: '2.0.0'`},
	})

	assert.Equal(t, []string{`version: '2.0'`}, res.Lines)
}

func TestResolveVersionChain(t *testing.T) {
	step := ResolveVersion(Input{
		Ours:   []string{`"version": "1.0.0"`},
		Theirs: []string{`"version": "1.2.0"`},
	})
	require.True(t, step.Resolved())

	final := ResolveVersion(Input{
		Ours:   step.Lines,
		Theirs: []string{`"version": "1.10.0"`},
	})
	assert.Equal(t, []string{`"version": "1.10.0"`}, final.Lines)
}

func TestResolveVersionFailsWithoutToken(t *testing.T) {
	res := ResolveVersion(Input{
		Ours:   []string{`"version": "1.0.0"`},
		Theirs: []string{`"name": "x"`},
	})

	assert.False(t, res.Resolved())
	assert.Zero(t, res.Confidence)
}

func TestResolveConfig(t *testing.T) {
	t.Run("json deep merge", func(t *testing.T) {
		res := ResolveConfig(Input{
			Path:   "tsconfig.json",
			Ours:   lines(`{"compilerOptions": {"strict": true, "paths": ["a"]}, "include": ["src"]}`),
			Theirs: lines(`{"compilerOptions": {"target": "es2022", "paths": ["b", "c"]}, "exclude": ["dist"]}`),
		})

		require.True(t, res.Resolved())
		assert.Equal(t, 0.6, res.Confidence)

		doc := parseJSON(t, res.Lines)
		opts := doc["compilerOptions"].(map[string]any)
		assert.Equal(t, true, opts["strict"])
		assert.Equal(t, "es2022", opts["target"])
		assert.Equal(t, []any{"a"}, opts["paths"], "arrays are replaced")
		assert.Contains(t, doc, "include")
		assert.Contains(t, doc, "exclude")
	})

	t.Run("yaml deep merge", func(t *testing.T) {
		res := ResolveConfig(Input{
			Path:   "deploy.yml",
			Ours:   lines("service:\n  replicas: 3\n  image: app:2"),
			Theirs: lines("service:\n  replicas: 2\n  port: 8080\nregion: eu"),
		})

		require.True(t, res.Resolved())
		doc, err := ParseDocument(res.Lines, FormatYAML)
		require.NoError(t, err)

		svc := doc["service"].(map[string]any)
		assert.Equal(t, 3, svc["replicas"])
		assert.Equal(t, 8080, svc["port"])
		assert.Equal(t, "app:2", svc["image"])
		assert.Equal(t, "eu", doc["region"])
	})

	t.Run("toml deep merge", func(t *testing.T) {
		res := ResolveConfig(Input{
			Path:   "config.toml",
			Ours:   lines("[server]\nport = 9000"),
			Theirs: lines("[server]\nhost = \"0.0.0.0\"\nport = 8000"),
		})

		require.True(t, res.Resolved())
		doc, err := ParseDocument(res.Lines, FormatTOML)
		require.NoError(t, err)

		server := doc["server"].(map[string]any)
		assert.EqualValues(t, 9000, server["port"])
		assert.Equal(t, "0.0.0.0", server["host"])
	})

	t.Run("fragment fails", func(t *testing.T) {
		res := ResolveConfig(Input{
			Path:   "settings.json",
			Ours:   lines(`  "debug": true,`),
			Theirs: lines(`  "debug": false,`),
		})

		assert.False(t, res.Resolved())
		assert.Zero(t, res.Confidence)
	})
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		format Format
	}{
		{"empty", []string{"", "  "}, FormatJSON},
		{"array", []string{"[1, 2]"}, FormatJSON},
		{"trailing data", []string{`{"a": 1} {"b": 2}`}, FormatJSON},
		{"yaml scalar", []string{"just text"}, FormatYAML},
		{"bad toml", []string{"a = "}, FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(tt.input, tt.format)
			require.Error(t, err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.format, perr.Format)
		})
	}
}

func TestDeepMergeDoesNotModifyInputs(t *testing.T) {
	base := Document{"a": map[string]any{"x": 1}}
	override := Document{"a": map[string]any{"y": 2}}

	merged := DeepMerge(base, override)

	assert.Equal(t, map[string]any{"x": 1, "y": 2}, merged["a"])
	assert.Equal(t, map[string]any{"x": 1}, base["a"])
	assert.Equal(t, map[string]any{"y": 2}, override["a"])
}
