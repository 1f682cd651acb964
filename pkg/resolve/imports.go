package resolve

import (
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ResolveImports replaces the region with the distinct import statements of
// both sides. Package imports come before relative ones ("./", "../"), and
// each group is sorted.
func ResolveImports(in Input) Result {
	imports := lo.FilterMap(slices.Concat(in.Ours, in.Theirs), func(line string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(line)
		return trimmed, strings.HasPrefix(trimmed, "import")
	})
	imports = lo.Uniq(imports)

	sort.SliceStable(imports, func(i, j int) bool {
		ei, ej := isPackageImport(imports[i]), isPackageImport(imports[j])
		if ei != ej {
			return ei
		}
		return imports[i] < imports[j]
	})

	return resolved(imports, 0.95, "Merged and sorted all imports")
}

func isPackageImport(line string) bool {
	return !strings.Contains(line, "./")
}
