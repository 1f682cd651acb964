package resolve

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// regenerateCommands maps lock file names to the command that rebuilds them.
var regenerateCommands = map[string]string{
	"package-lock.json":   "npm install",
	"npm-shrinkwrap.json": "npm install",
	"yarn.lock":           "yarn install",
	"pnpm-lock.yaml":      "pnpm install",
	"go.sum":              "go mod tidy",
	"Cargo.lock":          "cargo generate-lockfile",
	"composer.lock":       "composer update --lock",
	"Gemfile.lock":        "bundle lock",
	"poetry.lock":         "poetry lock --no-update",
}

var lockFilePattern = regexp.MustCompile(
	`^(package-lock\.json|npm-shrinkwrap\.json|yarn\.lock|pnpm-lock\.yaml|go\.sum|Cargo\.lock|composer\.lock|Gemfile\.lock|poetry\.lock)$`,
)

// RegenerateCommand returns the command that rebuilds a lock file, if the
// file name is a known lock file.
func RegenerateCommand(path string) (string, bool) {
	cmd, ok := regenerateCommands[filepath.Base(path)]
	return cmd, ok
}

// ResolveLockFile never merges text. Lock files are rebuilt from their
// manifest once the manifest conflicts are resolved.
func ResolveLockFile(in Input) Result {
	name := filepath.Base(in.Path)
	cmd, ok := RegenerateCommand(name)
	if !ok {
		name, cmd = "package-lock.json", regenerateCommands["package-lock.json"]
	}

	return Result{
		Confidence:  1.0,
		Explanation: fmt.Sprintf("%s should be regenerated with %s", name, cmd),
		Action:      ActionRegenerate,
		Command:     cmd,
	}
}
