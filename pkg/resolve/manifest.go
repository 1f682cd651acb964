package resolve

import (
	"github.com/samber/lo"
)

// dependencyFields are the package.json groups merged key by key.
var dependencyFields = []string{
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// ResolveManifest merges two package.json variants.
//
// Dependency groups are the union of base, theirs and ours, with ours taking
// precedence except when both sides pin the same package: then the higher
// version wins. Every other top-level key comes from ours, or from theirs
// when ours does not define it.
func ResolveManifest(in Input) Result {
	ours, err := ParseDocument(in.Ours, FormatJSON)
	if err != nil {
		return failed("Failed to parse ours: %v", err)
	}
	theirs, err := ParseDocument(in.Theirs, FormatJSON)
	if err != nil {
		return failed("Failed to parse theirs: %v", err)
	}
	base := Document{}
	if len(in.Base) > 0 {
		if base, err = ParseDocument(in.Base, FormatJSON); err != nil {
			return failed("Failed to parse base: %v", err)
		}
	}

	merged := base.Clone()

	for _, field := range dependencyFields {
		oursDeps, oursOK := ours[field].(map[string]any)
		theirsDeps, theirsOK := theirs[field].(map[string]any)
		if !oursOK && !theirsOK {
			continue
		}

		baseDeps, _ := base[field].(map[string]any)
		deps := lo.Assign(baseDeps, theirsDeps, oursDeps)

		if oursOK && theirsOK {
			for name := range deps {
				ov, inOurs := oursDeps[name].(string)
				tv, inTheirs := theirsDeps[name].(string)
				if inOurs && inTheirs {
					deps[name] = HigherVersion(ov, tv)
				}
			}
		}

		merged[field] = deps
	}

	for k, v := range ours {
		if !lo.Contains(dependencyFields, k) {
			merged[k] = v
		}
	}
	for k, v := range theirs {
		if _, definedByOurs := ours[k]; !definedByOurs && !lo.Contains(dependencyFields, k) {
			merged[k] = v
		}
	}

	lines, err := merged.Encode(FormatJSON)
	if err != nil {
		return failed("Failed to encode merged manifest: %v", err)
	}

	return resolved(lines, 0.9, "Merged all dependencies, using higher versions for conflicts")
}
