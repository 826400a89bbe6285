package vkswap

import "strings"

// cstrings returns copies of names terminated with NUL, as the Vulkan
// create-info structures require.
func cstrings(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !strings.HasSuffix(n, "\x00") {
			n += "\x00"
		}
		out = append(out, n)
	}
	return out
}

// intersect returns the entries of want that appear in have, in want order.
func intersect(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.TrimRight(h, "\x00")] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := set[strings.TrimRight(w, "\x00")]; ok {
			out = append(out, w)
		}
	}
	return out
}
