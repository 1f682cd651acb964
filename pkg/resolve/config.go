package resolve

// ResolveConfig deep merges two structured configuration blocks, theirs as
// the base and ours on top. The format follows the file extension and
// defaults to JSON.
func ResolveConfig(in Input) Result {
	format, ok := FormatForPath(in.Path)
	if !ok {
		format = FormatJSON
	}

	ours, err := ParseDocument(in.Ours, format)
	if err != nil {
		return failed("Manual resolution required: ours is not %s (%v)", format, err)
	}
	theirs, err := ParseDocument(in.Theirs, format)
	if err != nil {
		return failed("Manual resolution required: theirs is not %s (%v)", format, err)
	}

	lines, err := DeepMerge(theirs, ours).Encode(format)
	if err != nil {
		return failed("Failed to encode merged %s: %v", format, err)
	}

	return resolved(lines, 0.6, "Deep merged configuration objects")
}
